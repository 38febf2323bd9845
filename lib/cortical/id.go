// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cortical

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// IDLength is the fixed byte width of a cortical identifier on the wire.
const IDLength = 6

// ID identifies one cortical area. The zero value is not a valid ID.
type ID [IDLength]byte

// ParseID validates text as a cortical identifier: exactly six
// printable ASCII bytes.
func ParseID(text string) (ID, error) {
	if len(text) != IDLength {
		return ID{}, fault.BadParameters("cortical.ParseID",
			"identifier %q is %d bytes, want %d", text, len(text), IDLength)
	}
	return IDFromBytes([]byte(text))
}

// MustParseID is ParseID for compile-time constants. Panics on invalid
// input; never call it with user data.
func MustParseID(text string) ID {
	id, err := ParseID(text)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromBytes copies an identifier out of a wire buffer.
func IDFromBytes(data []byte) (ID, error) {
	var id ID
	if len(data) != IDLength {
		return id, fault.BadParameters("cortical.IDFromBytes",
			"identifier is %d bytes, want %d", len(data), IDLength)
	}
	for index, character := range data {
		if character < 0x21 || character > 0x7e {
			return ID{}, fault.BadParameters("cortical.IDFromBytes",
				"identifier byte %d is 0x%02x, want printable ASCII", index, character)
		}
	}
	copy(id[:], data)
	return id, nil
}

// String returns the identifier as text.
func (id ID) String() string {
	return string(id[:])
}

// IsZero reports whether id is the unset zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalText implements encoding.TextMarshaler so IDs travel as
// strings through JSON, YAML, and CBOR.
func (id ID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("cortical: cannot marshal zero identifier")
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
