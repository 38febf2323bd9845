// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuron

import (
	"iter"
	"math"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// BytesPerNeuron is the wire size of one sample: four 4-byte fields.
const BytesPerNeuron = 16

// XYZP is one spatial activation sample.
type XYZP struct {
	X         uint32
	Y         uint32
	Z         uint32
	Potential float32
}

// Arrays is a collection of samples stored as parallel slices.
// The zero value is an empty, usable collection.
type Arrays struct {
	x         []uint32
	y         []uint32
	z         []uint32
	potential []float32
}

// NewArrays returns an empty collection with room for capacity samples.
func NewArrays(capacity int) *Arrays {
	if capacity < 0 {
		capacity = 0
	}
	return &Arrays{
		x:         make([]uint32, 0, capacity),
		y:         make([]uint32, 0, capacity),
		z:         make([]uint32, 0, capacity),
		potential: make([]float32, 0, capacity),
	}
}

// ArraysFromSlices takes ownership of four parallel slices. Fails with
// KindBadParameters when their lengths differ.
func ArraysFromSlices(x, y, z []uint32, potential []float32) (*Arrays, error) {
	if len(x) != len(y) || len(x) != len(z) || len(x) != len(potential) {
		return nil, fault.BadParameters("neuron.ArraysFromSlices",
			"parallel slices have lengths x=%d y=%d z=%d p=%d", len(x), len(y), len(z), len(potential))
	}
	return &Arrays{x: x, y: y, z: z, potential: potential}, nil
}

// ArraysFromNeurons builds a collection from individual samples.
func ArraysFromNeurons(neurons ...XYZP) *Arrays {
	arrays := NewArrays(len(neurons))
	for _, sample := range neurons {
		arrays.Push(sample)
	}
	return arrays
}

// Len returns the number of samples.
func (arrays *Arrays) Len() int {
	return len(arrays.x)
}

// Cap returns the number of samples the collection can hold without
// reallocating.
func (arrays *Arrays) Cap() int {
	return min(cap(arrays.x), cap(arrays.y), cap(arrays.z), cap(arrays.potential))
}

// Push appends one sample.
func (arrays *Arrays) Push(sample XYZP) {
	arrays.x = append(arrays.x, sample.X)
	arrays.y = append(arrays.y, sample.Y)
	arrays.z = append(arrays.z, sample.Z)
	arrays.potential = append(arrays.potential, sample.Potential)
}

// Append appends one sample given as separate fields.
func (arrays *Arrays) Append(x, y, z uint32, potential float32) {
	arrays.Push(XYZP{X: x, Y: y, Z: z, Potential: potential})
}

// AppendSlices appends parallel slices in bulk. Fails with
// KindBadParameters, leaving the collection untouched, when their
// lengths differ.
func (arrays *Arrays) AppendSlices(x, y, z []uint32, potential []float32) error {
	if len(x) != len(y) || len(x) != len(z) || len(x) != len(potential) {
		return fault.BadParameters("neuron.Arrays.AppendSlices",
			"parallel slices have lengths x=%d y=%d z=%d p=%d", len(x), len(y), len(z), len(potential))
	}
	arrays.x = append(arrays.x, x...)
	arrays.y = append(arrays.y, y...)
	arrays.z = append(arrays.z, z...)
	arrays.potential = append(arrays.potential, potential...)
	return arrays.Validate()
}

// At returns sample i. Panics if i is out of range, like slice
// indexing.
func (arrays *Arrays) At(i int) XYZP {
	return XYZP{X: arrays.x[i], Y: arrays.y[i], Z: arrays.z[i], Potential: arrays.potential[i]}
}

// X returns the x coordinates. The slice aliases the collection's
// storage and must not be modified.
func (arrays *Arrays) X() []uint32 { return arrays.x }

// Y returns the y coordinates. Read-only, as for X.
func (arrays *Arrays) Y() []uint32 { return arrays.y }

// Z returns the z coordinates. Read-only, as for X.
func (arrays *Arrays) Z() []uint32 { return arrays.z }

// Potentials returns the potentials. Read-only, as for X.
func (arrays *Arrays) Potentials() []float32 { return arrays.potential }

// All yields every sample in order.
func (arrays *Arrays) All() iter.Seq2[int, XYZP] {
	return func(yield func(int, XYZP) bool) {
		for i := range arrays.x {
			if !yield(i, arrays.At(i)) {
				return
			}
		}
	}
}

// Reset truncates the collection to zero length, keeping capacity.
func (arrays *Arrays) Reset() {
	arrays.x = arrays.x[:0]
	arrays.y = arrays.y[:0]
	arrays.z = arrays.z[:0]
	arrays.potential = arrays.potential[:0]
}

// Grow ensures room for at least n more samples without reallocation.
func (arrays *Arrays) Grow(n int) {
	if n <= 0 || arrays.Cap()-arrays.Len() >= n {
		return
	}
	length := arrays.Len()
	arrays.x = append(make([]uint32, 0, length+n), arrays.x...)
	arrays.y = append(make([]uint32, 0, length+n), arrays.y...)
	arrays.z = append(make([]uint32, 0, length+n), arrays.z...)
	arrays.potential = append(make([]float32, 0, length+n), arrays.potential...)
}

// Validate reports a KindInternal error if the parallel slices have
// drifted apart. Every exported mutator preserves equal lengths, so a
// failure here indicates a defect.
func (arrays *Arrays) Validate() error {
	if len(arrays.x) != len(arrays.y) || len(arrays.x) != len(arrays.z) || len(arrays.x) != len(arrays.potential) {
		return fault.Internal("neuron.Arrays",
			"parallel slices have lengths x=%d y=%d z=%d p=%d",
			len(arrays.x), len(arrays.y), len(arrays.z), len(arrays.potential))
	}
	return nil
}

// PayloadBytes returns the serialized size of the samples.
func (arrays *Arrays) PayloadBytes() int {
	return arrays.Len() * BytesPerNeuron
}

// Clone returns a deep copy with capacity trimmed to length.
func (arrays *Arrays) Clone() *Arrays {
	return &Arrays{
		x:         append([]uint32(nil), arrays.x...),
		y:         append([]uint32(nil), arrays.y...),
		z:         append([]uint32(nil), arrays.z...),
		potential: append([]float32(nil), arrays.potential...),
	}
}

// Equal reports whether both collections hold the same samples in the
// same order. Potentials compare by bit pattern so NaN equals NaN.
func (arrays *Arrays) Equal(other *Arrays) bool {
	if arrays.Len() != other.Len() {
		return false
	}
	for i := range arrays.x {
		if arrays.x[i] != other.x[i] || arrays.y[i] != other.y[i] || arrays.z[i] != other.z[i] {
			return false
		}
		if math.Float32bits(arrays.potential[i]) != math.Float32bits(other.potential[i]) {
			return false
		}
	}
	return true
}
