// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package imageframe

import (
	"math"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

// Frame is a row-major height x width x channel float32 image. Values
// are intensities in [0, 1].
type Frame struct {
	properties Properties
	pixels     []float32
}

// NewFrame allocates a black frame.
func NewFrame(properties Properties) (*Frame, error) {
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	return &Frame{properties: properties, pixels: make([]float32, properties.ValueCount())}, nil
}

// FrameFromPixels wraps an existing buffer. The buffer length must
// equal properties.ValueCount().
func FrameFromPixels(properties Properties, pixels []float32) (*Frame, error) {
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	if len(pixels) != properties.ValueCount() {
		return nil, fault.BadParameters("imageframe.FrameFromPixels",
			"buffer holds %d values, %s needs %d", len(pixels), properties, properties.ValueCount())
	}
	return &Frame{properties: properties, pixels: pixels}, nil
}

// Properties returns the frame's shape descriptor.
func (frame *Frame) Properties() Properties {
	return frame.properties
}

// Pixels returns the underlying buffer for in-place kernels.
func (frame *Frame) Pixels() []float32 {
	return frame.pixels
}

func (frame *Frame) offset(row, column, channel int) int {
	width := int(frame.properties.Resolution.Width)
	return (row*width+column)*frame.properties.Layout.Channels() + channel
}

// At returns one channel value. Panics on out-of-range coordinates.
func (frame *Frame) At(row, column, channel int) float32 {
	return frame.pixels[frame.offset(row, column, channel)]
}

// Set writes one channel value. Panics on out-of-range coordinates.
func (frame *Frame) Set(row, column, channel int, value float32) {
	frame.pixels[frame.offset(row, column, channel)] = value
}

// Fill sets every value to value.
func (frame *Frame) Fill(value float32) {
	for index := range frame.pixels {
		frame.pixels[index] = value
	}
}

// CopyFrom overwrites frame with source. Both must share properties.
func (frame *Frame) CopyFrom(source *Frame) error {
	if source.properties != frame.properties {
		return fault.BadParameters("imageframe.Frame.CopyFrom",
			"source is %s, destination is %s", source.properties, frame.properties)
	}
	copy(frame.pixels, source.pixels)
	return nil
}

// Clone returns a deep copy.
func (frame *Frame) Clone() *Frame {
	return &Frame{properties: frame.properties, pixels: append([]float32(nil), frame.pixels...)}
}

// Equal reports identical properties and pixel values.
func (frame *Frame) Equal(other *Frame) bool {
	if frame.properties != other.properties || len(frame.pixels) != len(other.pixels) {
		return false
	}
	for index := range frame.pixels {
		if frame.pixels[index] != other.pixels[index] {
			return false
		}
	}
	return true
}

// Diff writes into output the pixels of current that differ from
// previous by more than threshold, and zero elsewhere. All three frames
// must share properties.
func Diff(current, previous, output *Frame, threshold float32) error {
	if current.properties != previous.properties || current.properties != output.properties {
		return fault.BadParameters("imageframe.Diff",
			"frames differ in shape: current %s, previous %s, output %s",
			current.properties, previous.properties, output.properties)
	}
	for index, value := range current.pixels {
		if float32(math.Abs(float64(value-previous.pixels[index]))) > threshold {
			output.pixels[index] = value
		} else {
			output.pixels[index] = 0
		}
	}
	return nil
}

// WriteNeurons appends one neuron per nonzero value: x is the column
// plus xOffset, y counts rows upward from the bottom edge, z is the
// color channel, and the potential is the intensity.
func (frame *Frame) WriteNeurons(arrays *neuron.Arrays, xOffset uint32) {
	width := int(frame.properties.Resolution.Width)
	height := int(frame.properties.Resolution.Height)
	channels := frame.properties.Layout.Channels()
	for row := range height {
		y := uint32(height - 1 - row)
		for column := range width {
			base := (row*width + column) * channels
			for channel := range channels {
				value := frame.pixels[base+channel]
				if value == 0 {
					continue
				}
				arrays.Append(uint32(column)+xOffset, y, uint32(channel), value)
			}
		}
	}
}

// NeuronCapacity returns the most neurons WriteNeurons can produce.
func (frame *Frame) NeuronCapacity() int {
	return frame.properties.ValueCount()
}
