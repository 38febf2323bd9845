// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

const (
	childCountSize = 1

	// ChildSubheaderSize is one child entry: offset, length.
	ChildSubheaderSize = 4 + 4

	// MaxChildren is the most children one container can index.
	MaxChildren = math.MaxUint8
)

// MultiStruct is a container of independent byte structures, kept in
// insertion order. Children may themselves be containers.
type MultiStruct struct {
	children []ByteStructure
}

// NewMultiStruct returns a container holding children.
func NewMultiStruct(children ...ByteStructure) *MultiStruct {
	return &MultiStruct{children: append([]ByteStructure(nil), children...)}
}

// Add appends a child.
func (container *MultiStruct) Add(child ByteStructure) {
	container.children = append(container.children, child)
}

// AddSerializer serializes view and appends the result.
func (container *MultiStruct) AddSerializer(view Serializer) error {
	child, err := Serialize(view)
	if err != nil {
		return err
	}
	container.Add(child)
	return nil
}

// Children returns the children in order.
func (container *MultiStruct) Children() []ByteStructure { return container.children }

// Len returns the number of children.
func (container *MultiStruct) Len() int { return len(container.children) }

func (container *MultiStruct) Type() Type     { return TypeMultiStruct }
func (container *MultiStruct) Version() uint8 { return TypeMultiStruct.Version() }

// MaxBytesNeeded implements Serializer. The size is exact.
func (container *MultiStruct) MaxBytesNeeded() int {
	size := HeaderSize + childCountSize + len(container.children)*ChildSubheaderSize
	for _, child := range container.children {
		size += child.Len()
	}
	return size
}

// WriteInto implements Serializer. A container needs at least one
// child and at most MaxChildren.
func (container *MultiStruct) WriteInto(buffer []byte) (int, error) {
	const op = "bytestructure.MultiStruct.WriteInto"
	count := len(container.children)
	if count == 0 {
		return 0, fault.Serialization(op, "container has no children")
	}
	if count > MaxChildren {
		return 0, fault.Serialization(op, "%d children exceed the limit of %d", count, MaxChildren)
	}
	needed := container.MaxBytesNeeded()
	if uint64(needed) > math.MaxUint32 {
		return 0, fault.Serialization(op, "container of %d bytes exceeds the 32-bit offset range", needed)
	}
	if err := writeHeader(container, buffer, needed); err != nil {
		return 0, err
	}
	buffer[HeaderSize] = uint8(count)
	subheader := HeaderSize + childCountSize
	offset := subheader + count*ChildSubheaderSize
	for index, child := range container.children {
		if child.IsZero() {
			return 0, fault.Serialization(op, "child %d is an empty structure", index)
		}
		binary.LittleEndian.PutUint32(buffer[subheader:], uint32(offset))
		binary.LittleEndian.PutUint32(buffer[subheader+4:], uint32(child.Len()))
		subheader += ChildSubheaderSize
		offset += copy(buffer[offset:], child.Bytes())
	}
	return len(buffer) - needed, nil
}

// MultiStructFromByteStructure parses a container. Every child is
// copied out and validated independently.
func MultiStructFromByteStructure(structure ByteStructure) (*MultiStruct, error) {
	const op = "bytestructure.MultiStructFromByteStructure"
	if err := structure.expect(op, TypeMultiStruct); err != nil {
		return nil, err
	}
	data := structure.Bytes()
	count := int(data[HeaderSize])
	if count == 0 {
		return nil, fault.Deserialization(op, "container has no children")
	}
	childrenStart := HeaderSize + childCountSize + count*ChildSubheaderSize
	if len(data) < childrenStart {
		return nil, fault.Deserialization(op, "buffer is %d bytes, %d child subheaders need %d",
			len(data), count, childrenStart)
	}
	container := &MultiStruct{children: make([]ByteStructure, 0, count)}
	for index := range count {
		subheader := data[HeaderSize+childCountSize+index*ChildSubheaderSize:]
		offset := int(binary.LittleEndian.Uint32(subheader))
		length := int(binary.LittleEndian.Uint32(subheader[4:]))
		if offset < childrenStart || offset > len(data) || length > len(data)-offset {
			return nil, fault.Deserialization(op, "child %d [%d, %d) lies outside the child region [%d, %d)",
				index, offset, offset+length, childrenStart, len(data))
		}
		child, err := New(bytes.Clone(data[offset : offset+length]))
		if err != nil {
			return nil, fault.Wrap(fault.KindDeserialization, op, err, "child %d", index)
		}
		container.children = append(container.children, child)
	}
	return container, nil
}
