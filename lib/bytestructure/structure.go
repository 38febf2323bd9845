// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// Type is the first header byte. The values are protocol constants.
type Type uint8

const (
	TypeJSON        Type = 1
	TypeCBOR        Type = 2
	TypeMultiStruct Type = 9
	TypeNeuronXYZP  Type = 11
	TypeCompressed  Type = 12
)

// versions holds the current version of every registered type.
var versions = map[Type]uint8{
	TypeJSON:        1,
	TypeCBOR:        1,
	TypeMultiStruct: 1,
	TypeNeuronXYZP:  1,
	TypeCompressed:  1,
}

// Version returns the version this package writes for structureType,
// or 0 if the type is not registered.
func (structureType Type) Version() uint8 {
	return versions[structureType]
}

func (structureType Type) String() string {
	switch structureType {
	case TypeJSON:
		return "json"
	case TypeCBOR:
		return "cbor"
	case TypeMultiStruct:
		return "multi_struct"
	case TypeNeuronXYZP:
		return "neuron_categorical_xyzp"
	case TypeCompressed:
		return "compressed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(structureType))
	}
}

const (
	// HeaderSize is the length of the type/version header.
	HeaderSize = 2

	// MinimumLength is the shortest valid structure.
	MinimumLength = 4
)

// ByteStructure is a header-validated byte buffer. It owns its bytes:
// callers must not modify a slice after passing it to New.
type ByteStructure struct {
	data []byte
}

// New validates the header of data and wraps it.
func New(data []byte) (ByteStructure, error) {
	const op = "bytestructure.New"
	if len(data) < MinimumLength {
		return ByteStructure{}, fault.Deserialization(op,
			"buffer is %d bytes, need at least %d", len(data), MinimumLength)
	}
	structureType := Type(data[0])
	if structureType.Version() == 0 {
		return ByteStructure{}, fault.Deserialization(op,
			"unknown structure type id %d, expected one of 1, 2, 9, 11, 12", data[0])
	}
	if data[1] == 0 {
		return ByteStructure{}, fault.Deserialization(op,
			"%s structure has version 0, expected a nonzero version", structureType)
	}
	return ByteStructure{data: data}, nil
}

// Bytes returns the whole buffer, header included.
func (structure ByteStructure) Bytes() []byte { return structure.data }

// Len returns the buffer length.
func (structure ByteStructure) Len() int { return len(structure.data) }

// IsZero reports whether structure was never validated.
func (structure ByteStructure) IsZero() bool { return structure.data == nil }

// Type returns the header type id.
func (structure ByteStructure) Type() Type {
	if len(structure.data) < HeaderSize {
		return 0
	}
	return Type(structure.data[0])
}

// Version returns the header version.
func (structure ByteStructure) Version() uint8 {
	if len(structure.data) < HeaderSize {
		return 0
	}
	return structure.data[1]
}

// Payload returns the bytes after the header.
func (structure ByteStructure) Payload() []byte {
	if len(structure.data) < HeaderSize {
		return nil
	}
	return structure.data[HeaderSize:]
}

// expect checks the exact type and version a deserializer supports.
func (structure ByteStructure) expect(op string, structureType Type) error {
	if structure.IsZero() {
		return fault.Deserialization(op, "empty byte structure")
	}
	if structure.Type() != structureType {
		return fault.Deserialization(op, "structure type is %s, expected %s", structure.Type(), structureType)
	}
	if structure.Version() != structureType.Version() {
		return fault.Deserialization(op, "%s version is %d, expected %d",
			structureType, structure.Version(), structureType.Version())
	}
	return nil
}

// View parses the payload into the typed view for the header's type:
// *JSON, *CBOR, *MultiStruct, *NeuronXYZP, or *Compressed.
func (structure ByteStructure) View() (Serializer, error) {
	switch structure.Type() {
	case TypeJSON:
		return viewOrNil(JSONFromByteStructure(structure))
	case TypeCBOR:
		return viewOrNil(CBORFromByteStructure(structure))
	case TypeMultiStruct:
		return viewOrNil(MultiStructFromByteStructure(structure))
	case TypeNeuronXYZP:
		return viewOrNil(NeuronXYZPFromByteStructure(structure))
	case TypeCompressed:
		return viewOrNil(CompressedFromByteStructure(structure))
	default:
		return nil, fault.Deserialization("bytestructure.ByteStructure.View",
			"unknown structure type id %d", uint8(structure.Type()))
	}
}

func viewOrNil[V Serializer](view V, err error) (Serializer, error) {
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Digest is a 32-byte BLAKE3 digest of a structure.
type Digest [32]byte

func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// digestKey domain-separates structure digests from any other BLAKE3
// use of the same bytes. The value is a protocol constant.
var digestKey = [32]byte{
	'c', 'o', 'r', 't', 'e', 'x', 'b', 'r', 'i', 'd', 'g', 'e', '.',
	'b', 'y', 't', 'e', 's', 't', 'r', 'u', 'c', 't', 'u', 'r', 'e',
}

// Digest returns the keyed BLAKE3 hash of the whole buffer.
func (structure ByteStructure) Digest() Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("bytestructure: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(structure.data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
