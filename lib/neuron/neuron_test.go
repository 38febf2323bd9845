// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuron

import (
	"errors"
	"testing"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
)

func TestArraysPushAndAt(t *testing.T) {
	t.Parallel()

	arrays := NewArrays(2)
	arrays.Push(XYZP{X: 1, Y: 2, Z: 3, Potential: 0.5})
	arrays.Append(4, 5, 6, 1.0)
	arrays.Append(7, 8, 9, -1.0) // beyond initial capacity

	if arrays.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arrays.Len())
	}
	if got := arrays.At(1); got != (XYZP{X: 4, Y: 5, Z: 6, Potential: 1.0}) {
		t.Errorf("At(1) = %+v", got)
	}
	if err := arrays.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if arrays.PayloadBytes() != 48 {
		t.Errorf("PayloadBytes() = %d, want 48", arrays.PayloadBytes())
	}

	var visited int
	for index, sample := range arrays.All() {
		if sample != arrays.At(index) {
			t.Errorf("All() yielded %+v at %d", sample, index)
		}
		visited++
	}
	if visited != 3 {
		t.Errorf("All() visited %d samples, want 3", visited)
	}
}

func TestArraysResetKeepsCapacity(t *testing.T) {
	t.Parallel()

	arrays := NewArrays(16)
	for i := range 10 {
		arrays.Append(uint32(i), 0, 0, 1)
	}
	capacity := arrays.Cap()
	arrays.Reset()

	if arrays.Len() != 0 {
		t.Errorf("Len() after Reset = %d", arrays.Len())
	}
	if arrays.Cap() != capacity {
		t.Errorf("Cap() after Reset = %d, want %d", arrays.Cap(), capacity)
	}
}

func TestArraysFromSlicesRejectsMismatch(t *testing.T) {
	t.Parallel()

	_, err := ArraysFromSlices([]uint32{1, 2}, []uint32{1, 2}, []uint32{1}, []float32{1, 2})
	if !fault.Is(err, fault.KindBadParameters) {
		t.Fatalf("error = %v, want bad parameters", err)
	}

	arrays := NewArrays(0)
	err = arrays.AppendSlices([]uint32{1}, []uint32{1}, []uint32{1}, nil)
	if !fault.Is(err, fault.KindBadParameters) {
		t.Fatalf("AppendSlices error = %v, want bad parameters", err)
	}
	if arrays.Len() != 0 {
		t.Errorf("failed AppendSlices modified the collection")
	}
}

func TestArraysValidateDetectsDrift(t *testing.T) {
	t.Parallel()

	arrays := &Arrays{x: []uint32{1}, y: []uint32{1}, z: []uint32{1}}
	if err := arrays.Validate(); !fault.Is(err, fault.KindInternal) {
		t.Errorf("Validate() = %v, want internal error", err)
	}
}

func TestArraysGrow(t *testing.T) {
	t.Parallel()

	arrays := ArraysFromNeurons(XYZP{X: 1, Potential: 1})
	arrays.Grow(100)
	if arrays.Cap() < 101 {
		t.Errorf("Cap() after Grow(100) = %d", arrays.Cap())
	}
	if arrays.Len() != 1 || arrays.At(0).X != 1 {
		t.Errorf("Grow lost existing samples")
	}
}

func TestCorticalMapWithClearedArrays(t *testing.T) {
	t.Parallel()

	id := cortical.MustParseID("ipro00")
	neurons := NewCorticalMap()

	err := neurons.WithClearedArrays(id, 4, func(arrays *Arrays) error {
		arrays.Append(1, 0, 0, 1)
		arrays.Append(2, 0, 0, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("first borrow: %v", err)
	}
	first, _ := neurons.Get(id)
	if first.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", first.Len())
	}

	err = neurons.WithClearedArrays(id, 4, func(arrays *Arrays) error {
		if arrays.Len() != 0 {
			t.Errorf("borrowed collection not cleared: Len() = %d", arrays.Len())
		}
		if arrays != first {
			t.Error("existing collection was not reused")
		}
		arrays.Append(9, 0, 0, 0.25)
		return nil
	})
	if err != nil {
		t.Fatalf("second borrow: %v", err)
	}
	second, _ := neurons.Get(id)
	if second.Len() != 1 || second.At(0).X != 9 {
		t.Errorf("second borrow contents = %+v", second.At(0))
	}

	sentinel := errors.New("writer failed")
	if err := neurons.WithClearedArrays(id, 1, func(*Arrays) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("callback error not propagated: %v", err)
	}

	if err := neurons.WithClearedArrays(cortical.ID{}, 1, func(*Arrays) error { return nil }); !fault.Is(err, fault.KindBadParameters) {
		t.Errorf("zero identifier accepted: %v", err)
	}
}

func TestCorticalMapInsertReplacesAndOrders(t *testing.T) {
	t.Parallel()

	neurons := NewCorticalMap()
	b := cortical.MustParseID("iinf01")
	a := cortical.MustParseID("iinf00")
	neurons.Insert(b, ArraysFromNeurons(XYZP{X: 1}))
	neurons.Insert(a, ArraysFromNeurons(XYZP{X: 2}, XYZP{X: 3}))
	neurons.Insert(b, ArraysFromNeurons(XYZP{X: 4}))

	if neurons.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", neurons.Len())
	}
	if neurons.TotalNeurons() != 3 {
		t.Errorf("TotalNeurons() = %d, want 3", neurons.TotalNeurons())
	}
	identifiers := neurons.IDs()
	if identifiers[0] != a || identifiers[1] != b {
		t.Errorf("IDs() = %v, want [%v %v]", identifiers, a, b)
	}
	replaced, _ := neurons.Get(b)
	if replaced.At(0).X != 4 {
		t.Errorf("Insert did not replace existing collection")
	}

	neurons.Reset()
	if neurons.Len() != 2 || neurons.TotalNeurons() != 0 {
		t.Errorf("Reset: Len=%d Total=%d, want 2 and 0", neurons.Len(), neurons.TotalNeurons())
	}
	neurons.Clear()
	if neurons.Len() != 0 {
		t.Errorf("Clear left %d areas", neurons.Len())
	}
}

func TestCorticalMapEqual(t *testing.T) {
	t.Parallel()

	id := cortical.MustParseID("omot00")
	left := NewCorticalMap()
	right := NewCorticalMap()
	left.Insert(id, ArraysFromNeurons(XYZP{X: 1, Potential: 0.5}))
	right.Insert(id, ArraysFromNeurons(XYZP{X: 1, Potential: 0.5}))
	if !left.Equal(right) {
		t.Error("identical maps compare unequal")
	}

	right.Insert(id, ArraysFromNeurons(XYZP{X: 1, Potential: 0.25}))
	if left.Equal(right) {
		t.Error("maps with different potentials compare equal")
	}
}
