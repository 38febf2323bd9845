// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuron

import (
	"bytes"
	"iter"
	"slices"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// CorticalMap maps cortical areas to their neuron collections. There is
// at most one collection per area.
type CorticalMap struct {
	areas map[cortical.ID]*Arrays
}

// NewCorticalMap returns an empty map.
func NewCorticalMap() *CorticalMap {
	return &CorticalMap{areas: make(map[cortical.ID]*Arrays)}
}

// Insert sets the collection for id, replacing any previous one.
func (neurons *CorticalMap) Insert(id cortical.ID, arrays *Arrays) {
	if neurons.areas == nil {
		neurons.areas = make(map[cortical.ID]*Arrays)
	}
	neurons.areas[id] = arrays
}

// Get returns the collection for id. The collection is still owned by
// the map; callers must treat it as read-only.
func (neurons *CorticalMap) Get(id cortical.ID) (*Arrays, bool) {
	arrays, ok := neurons.areas[id]
	return arrays, ok
}

// Remove deletes the collection for id, if any.
func (neurons *CorticalMap) Remove(id cortical.ID) {
	delete(neurons.areas, id)
}

// Len returns the number of areas.
func (neurons *CorticalMap) Len() int {
	return len(neurons.areas)
}

// TotalNeurons returns the sum of all collection lengths.
func (neurons *CorticalMap) TotalNeurons() int {
	var total int
	for _, arrays := range neurons.areas {
		total += arrays.Len()
	}
	return total
}

// IDs returns the area identifiers in byte order.
func (neurons *CorticalMap) IDs() []cortical.ID {
	identifiers := make([]cortical.ID, 0, len(neurons.areas))
	for id := range neurons.areas {
		identifiers = append(identifiers, id)
	}
	slices.SortFunc(identifiers, func(a, b cortical.ID) int {
		return bytes.Compare(a[:], b[:])
	})
	return identifiers
}

// All yields every area in byte order of identifier.
func (neurons *CorticalMap) All() iter.Seq2[cortical.ID, *Arrays] {
	return func(yield func(cortical.ID, *Arrays) bool) {
		for _, id := range neurons.IDs() {
			if !yield(id, neurons.areas[id]) {
				return
			}
		}
	}
}

// WithClearedArrays lends fn the collection for id, emptied and with
// room for at least capacity samples. The collection is created if it
// does not exist. The borrow ends when fn returns: fn must not retain
// the pointer, and must not call WithClearedArrays for the same id.
//
// After fn returns, the collection's parallel-slice invariant is
// checked; fn's own error takes precedence.
func (neurons *CorticalMap) WithClearedArrays(id cortical.ID, capacity int, fn func(*Arrays) error) error {
	if id.IsZero() {
		return fault.BadParameters("neuron.CorticalMap.WithClearedArrays", "zero cortical identifier")
	}
	if neurons.areas == nil {
		neurons.areas = make(map[cortical.ID]*Arrays)
	}
	arrays, ok := neurons.areas[id]
	if !ok {
		arrays = NewArrays(capacity)
		neurons.areas[id] = arrays
	} else {
		arrays.Reset()
		arrays.Grow(capacity)
	}
	if err := fn(arrays); err != nil {
		return err
	}
	return arrays.Validate()
}

// Reset truncates every collection in place, keeping the areas and
// their capacity for the next burst.
func (neurons *CorticalMap) Reset() {
	for _, arrays := range neurons.areas {
		arrays.Reset()
	}
}

// Clear removes every area.
func (neurons *CorticalMap) Clear() {
	clear(neurons.areas)
}

// Equal reports whether both maps hold the same areas with equal
// collections. Area order is irrelevant; order within an area matters.
func (neurons *CorticalMap) Equal(other *CorticalMap) bool {
	if neurons.Len() != other.Len() {
		return false
	}
	for id, arrays := range neurons.areas {
		otherArrays, ok := other.areas[id]
		if !ok || !arrays.Equal(otherArrays) {
			return false
		}
	}
	return true
}
