// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// Serializer is implemented by every structure view.
type Serializer interface {
	// Type is the header type id.
	Type() Type

	// Version is the header version.
	Version() uint8

	// MaxBytesNeeded is an upper bound on the serialized size, header
	// included.
	MaxBytesNeeded() int

	// WriteInto serializes into the front of buffer and returns the
	// number of unused trailing bytes. It fails if buffer is shorter
	// than the structure.
	WriteInto(buffer []byte) (unused int, err error)
}

// Serialize writes serializer into a freshly sized buffer and returns
// the validated structure.
func Serialize(serializer Serializer) (ByteStructure, error) {
	buffer := make([]byte, serializer.MaxBytesNeeded())
	unused, err := serializer.WriteInto(buffer)
	if err != nil {
		return ByteStructure{}, err
	}
	structure, err := New(buffer[:len(buffer)-unused])
	if err != nil {
		return ByteStructure{}, fault.Wrap(fault.KindInternal, "bytestructure.Serialize", err,
			"%s serializer produced an invalid structure", serializer.Type())
	}
	return structure, nil
}

// writeHeader writes the header for serializer after checking that
// buffer can hold needed bytes.
func writeHeader(serializer Serializer, buffer []byte, needed int) error {
	if len(buffer) < needed {
		return fault.Serialization(fmt.Sprintf("bytestructure.%s.WriteInto", serializer.Type()),
			"buffer is %d bytes, need %d", len(buffer), needed)
	}
	buffer[0] = byte(serializer.Type())
	buffer[1] = serializer.Version()
	return nil
}
