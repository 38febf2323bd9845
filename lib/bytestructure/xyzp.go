// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"encoding/binary"
	"math"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

const (
	// areaCountSize is the u16 area count after the header.
	areaCountSize = 2

	// AreaSubheaderSize is one area entry: identifier, offset, length.
	AreaSubheaderSize = cortical.IDLength + 4 + 4

	// MaxAreas is the most areas one structure can index.
	MaxAreas = math.MaxUint16
)

// NeuronXYZP carries neuron collections keyed by cortical area.
type NeuronXYZP struct {
	neurons *neuron.CorticalMap
}

// NewNeuronXYZP wraps neurons for serialization. The map is read at
// write time, not copied.
func NewNeuronXYZP(neurons *neuron.CorticalMap) *NeuronXYZP {
	return &NeuronXYZP{neurons: neurons}
}

// Neurons returns the wrapped map.
func (structure *NeuronXYZP) Neurons() *neuron.CorticalMap { return structure.neurons }

func (structure *NeuronXYZP) Type() Type     { return TypeNeuronXYZP }
func (structure *NeuronXYZP) Version() uint8 { return TypeNeuronXYZP.Version() }

// MaxBytesNeeded implements Serializer. The size is exact.
func (structure *NeuronXYZP) MaxBytesNeeded() int {
	return HeaderSize + areaCountSize +
		structure.neurons.Len()*AreaSubheaderSize +
		structure.neurons.TotalNeurons()*neuron.BytesPerNeuron
}

// WriteInto implements Serializer. Areas are written in identifier
// byte order.
func (structure *NeuronXYZP) WriteInto(buffer []byte) (int, error) {
	const op = "bytestructure.NeuronXYZP.WriteInto"
	needed := structure.MaxBytesNeeded()
	if structure.neurons.Len() > MaxAreas {
		return 0, fault.Serialization(op, "%d areas exceed the limit of %d", structure.neurons.Len(), MaxAreas)
	}
	if uint64(needed) > math.MaxUint32 {
		return 0, fault.Serialization(op, "structure of %d bytes exceeds the 32-bit offset range", needed)
	}
	if err := writeHeader(structure, buffer, needed); err != nil {
		return 0, err
	}

	ids := structure.neurons.IDs()
	binary.LittleEndian.PutUint16(buffer[HeaderSize:], uint16(len(ids)))
	subheader := HeaderSize + areaCountSize
	payload := subheader + len(ids)*AreaSubheaderSize
	for _, id := range ids {
		arrays, _ := structure.neurons.Get(id)
		if err := arrays.Validate(); err != nil {
			return 0, fault.Wrap(fault.KindSerialization, op, err, "area %s", id)
		}
		length := arrays.PayloadBytes()

		copy(buffer[subheader:], id[:])
		binary.LittleEndian.PutUint32(buffer[subheader+cortical.IDLength:], uint32(payload))
		binary.LittleEndian.PutUint32(buffer[subheader+cortical.IDLength+4:], uint32(length))
		subheader += AreaSubheaderSize

		writeArrays(buffer[payload:payload+length], arrays)
		payload += length
	}
	return len(buffer) - needed, nil
}

// writeArrays lays out one area as x run, y run, z run, potential run.
func writeArrays(destination []byte, arrays *neuron.Arrays) {
	count := arrays.Len()
	runs := [3][]uint32{arrays.X(), arrays.Y(), arrays.Z()}
	for run, values := range runs {
		base := run * count * 4
		for index, value := range values {
			binary.LittleEndian.PutUint32(destination[base+index*4:], value)
		}
	}
	base := 3 * count * 4
	for index, potential := range arrays.Potentials() {
		binary.LittleEndian.PutUint32(destination[base+index*4:], math.Float32bits(potential))
	}
}

// NeuronXYZPFromByteStructure parses a neuron structure into a new map.
func NeuronXYZPFromByteStructure(structure ByteStructure) (*NeuronXYZP, error) {
	neurons := neuron.NewCorticalMap()
	if err := ReadNeuronXYZPInto(structure, neurons); err != nil {
		return nil, err
	}
	return &NeuronXYZP{neurons: neurons}, nil
}

// ReadNeuronXYZPInto parses a neuron structure into neurons, reusing
// its collections. Areas of neurons that the structure does not
// mention are left empty.
func ReadNeuronXYZPInto(structure ByteStructure, neurons *neuron.CorticalMap) error {
	const op = "bytestructure.ReadNeuronXYZPInto"
	if err := structure.expect(op, TypeNeuronXYZP); err != nil {
		return err
	}
	data := structure.Bytes()
	count := int(binary.LittleEndian.Uint16(data[HeaderSize:]))
	payloadStart := HeaderSize + areaCountSize + count*AreaSubheaderSize
	if len(data) < payloadStart {
		return fault.Deserialization(op, "buffer is %d bytes, %d area subheaders need %d",
			len(data), count, payloadStart)
	}

	neurons.Reset()
	seen := make(map[cortical.ID]bool, count)
	for index := range count {
		subheader := data[HeaderSize+areaCountSize+index*AreaSubheaderSize:]
		id, err := cortical.IDFromBytes(subheader[:cortical.IDLength])
		if err != nil {
			return fault.Wrap(fault.KindDeserialization, op, err, "area %d identifier", index)
		}
		if seen[id] {
			return fault.Deserialization(op, "area %s appears twice", id)
		}
		seen[id] = true
		offset := int(binary.LittleEndian.Uint32(subheader[cortical.IDLength:]))
		length := int(binary.LittleEndian.Uint32(subheader[cortical.IDLength+4:]))
		if length%neuron.BytesPerNeuron != 0 {
			return fault.Deserialization(op, "area %s payload is %d bytes, not a multiple of %d",
				id, length, neuron.BytesPerNeuron)
		}
		if offset < payloadStart || offset > len(data) || length > len(data)-offset {
			return fault.Deserialization(op, "area %s payload [%d, %d) lies outside the payload region [%d, %d)",
				id, offset, offset+length, payloadStart, len(data))
		}
		source := data[offset : offset+length]
		neuronCount := length / neuron.BytesPerNeuron
		err = neurons.WithClearedArrays(id, neuronCount, func(arrays *neuron.Arrays) error {
			readArrays(arrays, source, neuronCount)
			return nil
		})
		if err != nil {
			return fault.Wrap(fault.KindDeserialization, op, err, "area %s", id)
		}
	}
	return nil
}

func readArrays(arrays *neuron.Arrays, source []byte, count int) {
	run := count * 4
	for index := range count {
		offset := index * 4
		arrays.Append(
			binary.LittleEndian.Uint32(source[offset:]),
			binary.LittleEndian.Uint32(source[run+offset:]),
			binary.LittleEndian.Uint32(source[2*run+offset:]),
			math.Float32frombits(binary.LittleEndian.Uint32(source[3*run+offset:])),
		)
	}
}
