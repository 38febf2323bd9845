// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// JSON carries one JSON document. The payload is the raw UTF-8 text
// with no length prefix.
type JSON struct {
	text []byte
}

// NewJSON marshals v into a JSON structure.
func NewJSON(v any) (*JSON, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, fault.Wrap(fault.KindSerialization, "bytestructure.NewJSON", err, "marshaling %T", v)
	}
	return &JSON{text: text}, nil
}

// JSONFromText wraps already-encoded JSON text after checking that it
// is a single valid document.
func JSONFromText(text []byte) (*JSON, error) {
	if !json.Valid(text) {
		return nil, fault.BadParameters("bytestructure.JSONFromText", "text is not valid JSON")
	}
	return &JSON{text: bytes.Clone(text)}, nil
}

// JSONFromByteStructure parses a JSON structure.
func JSONFromByteStructure(structure ByteStructure) (*JSON, error) {
	const op = "bytestructure.JSONFromByteStructure"
	if err := structure.expect(op, TypeJSON); err != nil {
		return nil, err
	}
	payload := structure.Payload()
	if !utf8.Valid(payload) {
		return nil, fault.Deserialization(op, "payload is not valid UTF-8")
	}
	if !json.Valid(payload) {
		return nil, fault.Deserialization(op, "payload is not valid JSON")
	}
	return &JSON{text: bytes.TrimRight(payload, " ")}, nil
}

// Text returns the JSON text.
func (document *JSON) Text() []byte { return document.text }

// Decode unmarshals the document into v.
func (document *JSON) Decode(v any) error {
	if err := json.Unmarshal(document.text, v); err != nil {
		return fault.Wrap(fault.KindDeserialization, "bytestructure.JSON.Decode", err, "decoding into %T", v)
	}
	return nil
}

func (document *JSON) Type() Type     { return TypeJSON }
func (document *JSON) Version() uint8 { return TypeJSON.Version() }

// payloadLength pads one-byte documents such as `1` with a trailing
// space so the structure reaches the minimum length. JSON ignores the
// whitespace and the reader trims it.
func (document *JSON) payloadLength() int {
	return max(len(document.text), MinimumLength-HeaderSize)
}

// MaxBytesNeeded implements Serializer. The size is exact.
func (document *JSON) MaxBytesNeeded() int {
	return HeaderSize + document.payloadLength()
}

// WriteInto implements Serializer.
func (document *JSON) WriteInto(buffer []byte) (int, error) {
	needed := document.MaxBytesNeeded()
	if err := writeHeader(document, buffer, needed); err != nil {
		return 0, err
	}
	written := copy(buffer[HeaderSize:], document.text)
	for index := HeaderSize + written; index < needed; index++ {
		buffer[index] = ' '
	}
	return len(buffer) - needed, nil
}
