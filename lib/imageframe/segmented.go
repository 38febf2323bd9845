// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package imageframe

import "fmt"

// SegmentedFrame is nine frames: index 0 is the center, 1..8 are the
// peripheral segments clockwise from top-left.
type SegmentedFrame struct {
	properties SegmentedProperties
	segments   [SegmentCount]*Frame
}

// NewSegmentedFrame allocates nine black segments.
func NewSegmentedFrame(properties SegmentedProperties) (*SegmentedFrame, error) {
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	segmented := &SegmentedFrame{properties: properties}
	for index := range segmented.segments {
		frame, err := NewFrame(properties.Segment(index))
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", index, err)
		}
		segmented.segments[index] = frame
	}
	return segmented, nil
}

// Properties returns the segmented shape descriptor.
func (segmented *SegmentedFrame) Properties() SegmentedProperties {
	return segmented.properties
}

// Segment returns segment index. Panics if index is not in [0, 9).
func (segmented *SegmentedFrame) Segment(index int) *Frame {
	return segmented.segments[index]
}

// Clone returns a deep copy.
func (segmented *SegmentedFrame) Clone() *SegmentedFrame {
	clone := &SegmentedFrame{properties: segmented.properties}
	for index, frame := range segmented.segments {
		clone.segments[index] = frame.Clone()
	}
	return clone
}

// Equal reports identical properties and segment contents.
func (segmented *SegmentedFrame) Equal(other *SegmentedFrame) bool {
	if segmented.properties != other.properties {
		return false
	}
	for index, frame := range segmented.segments {
		if !frame.Equal(other.segments[index]) {
			return false
		}
	}
	return true
}
