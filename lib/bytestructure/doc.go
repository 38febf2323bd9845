// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytestructure implements the self-describing binary wire
// format exchanged between a peripheral connector and the brain engine.
//
// Every byte structure starts with a two-byte header: a type id and a
// nonzero version. The rest of the buffer is the type's payload. All
// multi-byte integers are little-endian.
//
//	id  type                   version  payload
//	 1  JSON                   1        UTF-8 JSON text, to end of buffer
//	 2  CBOR                   1        self-described CBOR item
//	 9  MultiStruct            1        u8 count, count x (u32 offset, u32 length), children
//	11  NeuronXYZP             1        u16 count, count x (id[6], u32 offset, u32 length), payloads
//	12  Compressed             1        u8 algorithm, u32 inner length, compressed inner structure
//
// Bytes become a [ByteStructure] only through [New], which checks the
// header: at least four bytes, a registered type id, and a nonzero
// version. [ByteStructure.View] then dispatches on the type id and
// parses the payload into its typed view. Each view also has a
// standalone deserializer (for example [NeuronXYZPFromByteStructure])
// that checks the exact type and version before parsing.
//
// Writing goes the other way through [Serializer]: every view reports
// an upper bound on its size and writes itself into a caller-supplied
// buffer, returning the number of unused trailing bytes. [Serialize]
// sizes the buffer, trims the slack, and validates the result.
//
// Neuron payloads are laid out as struct of arrays: all x values, then
// all y, then all z, then all potentials, so every area payload is a
// multiple of 16 bytes. Areas are written in byte order of their
// cortical identifiers, which makes the output deterministic; readers
// must rely on the subheader offsets, never on position.
//
// [ByteStructure.Digest] returns a domain-separated BLAKE3 hash of the
// whole buffer, used by the inspector and for deduplicating repeated
// metadata.
package bytestructure
