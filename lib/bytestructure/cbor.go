// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"bytes"

	"github.com/cortexbridge/cortexbridge/lib/codec"
	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// selfDescribed is the RFC 8949 §3.4.6 self-described CBOR tag
// (55799). Every CBOR payload starts with it, which also keeps the
// smallest structure above the four-byte minimum.
var selfDescribed = []byte{0xd9, 0xd9, 0xf7}

// CBOR carries one deterministic CBOR data item.
type CBOR struct {
	item []byte
}

// NewCBOR encodes v with the deterministic codec.
func NewCBOR(v any) (*CBOR, error) {
	item, err := codec.Marshal(v)
	if err != nil {
		return nil, fault.Wrap(fault.KindSerialization, "bytestructure.NewCBOR", err, "marshaling %T", v)
	}
	return &CBOR{item: item}, nil
}

// CBORFromByteStructure parses a CBOR structure.
func CBORFromByteStructure(structure ByteStructure) (*CBOR, error) {
	const op = "bytestructure.CBORFromByteStructure"
	if err := structure.expect(op, TypeCBOR); err != nil {
		return nil, err
	}
	item, found := bytes.CutPrefix(structure.Payload(), selfDescribed)
	if !found {
		return nil, fault.Deserialization(op, "payload does not start with the self-described CBOR tag")
	}
	if err := codec.Wellformed(item); err != nil {
		return nil, fault.Wrap(fault.KindDeserialization, op, err, "malformed CBOR item")
	}
	return &CBOR{item: item}, nil
}

// Item returns the encoded CBOR item without the self-described tag.
func (document *CBOR) Item() []byte { return document.item }

// Decode unmarshals the item into v.
func (document *CBOR) Decode(v any) error {
	if err := codec.Unmarshal(document.item, v); err != nil {
		return fault.Wrap(fault.KindDeserialization, "bytestructure.CBOR.Decode", err, "decoding into %T", v)
	}
	return nil
}

// Diagnose returns the item in CBOR diagnostic notation.
func (document *CBOR) Diagnose() (string, error) {
	return codec.Diagnose(document.item)
}

func (document *CBOR) Type() Type     { return TypeCBOR }
func (document *CBOR) Version() uint8 { return TypeCBOR.Version() }

// MaxBytesNeeded implements Serializer. The size is exact.
func (document *CBOR) MaxBytesNeeded() int {
	return HeaderSize + len(selfDescribed) + len(document.item)
}

// WriteInto implements Serializer.
func (document *CBOR) WriteInto(buffer []byte) (int, error) {
	needed := document.MaxBytesNeeded()
	if err := writeHeader(document, buffer, needed); err != nil {
		return 0, err
	}
	copy(buffer[HeaderSize:], selfDescribed)
	copy(buffer[HeaderSize+len(selfDescribed):], document.item)
	return len(buffer) - needed, nil
}
