// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration for CortexBridge
// metadata.
//
// The wire carries two metadata encodings. JSON byte structures are
// for documents a person or an off-the-shelf engine will read, such as
// the burst status. CBOR byte structures are for machine-to-machine
// metadata such as channel descriptors, where size and deterministic
// bytes matter: the same descriptor always encodes identically, so its
// BLAKE3 digest is stable across bursts.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Types implementing encoding.TextMarshaler, notably cortical.ID,
// encode as text strings:
//
//	data, err := codec.Marshal(descriptor)
//	err = codec.Unmarshal(data, &descriptor)
//
// Struct fields use `json` tags. fxamacker/cbor falls back to them when
// no `cbor` tag is present, so one tag names a field in both formats.
package codec
