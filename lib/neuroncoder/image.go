// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuroncoder

import (
	"math"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

// Image writes frames of a fixed shape into one area. Channel n starts
// at x = n * width.
type Image struct {
	area       cortical.ID
	properties imageframe.Properties
}

// NewImage returns an image encoder for frames with exactly the given
// properties.
func NewImage(area cortical.ID, properties imageframe.Properties) (*Image, error) {
	const op = "neuroncoder.NewImage"
	if err := checkArea(op, area); err != nil {
		return nil, err
	}
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	return &Image{area: area, properties: properties}, nil
}

// InputType implements Encoder.
func (image *Image) InputType() iovalue.Type { return iovalue.ImageFrameType(image.properties) }

// Dimensions returns the per-channel extent: width, height, and one z
// plane per color channel.
func (image *Image) Dimensions() cortical.Dimensions {
	return cortical.Dimensions{
		X: image.properties.Resolution.Width,
		Y: image.properties.Resolution.Height,
		Z: uint32(image.properties.Layout.Channels()),
	}
}

// WriteSingleChannel implements Encoder.
func (image *Image) WriteSingleChannel(value iovalue.Value, channel cortical.ChannelIndex, neurons *neuron.CorticalMap) error {
	return image.WriteMultiChannel([]ChannelValue{{Channel: channel, Value: value}}, neurons)
}

// WriteMultiChannel implements BatchEncoder.
func (image *Image) WriteMultiChannel(values []ChannelValue, neurons *neuron.CorticalMap) error {
	frames, err := checkFrames("neuroncoder.Image", values, image.properties)
	if err != nil {
		return err
	}
	capacity := len(values) * image.properties.ValueCount()
	return neurons.WithClearedArrays(image.area, capacity, func(arrays *neuron.Arrays) error {
		for index, frame := range frames {
			frame.WriteNeurons(arrays, uint32(values[index].Channel)*image.properties.Resolution.Width)
		}
		return nil
	})
}

func checkFrames(op string, values []ChannelValue, properties imageframe.Properties) ([]*imageframe.Frame, error) {
	frames := make([]*imageframe.Frame, len(values))
	for index, entry := range values {
		frame, err := entry.Value.Image()
		if err != nil {
			return nil, err
		}
		if frame.Properties() != properties {
			return nil, fault.BadParameters(op, "channel %d frame is %s, encoder expects %s",
				entry.Channel, frame.Properties(), properties)
		}
		if err := checkOffset(op, entry.Channel, properties.Resolution.Width); err != nil {
			return nil, err
		}
		frames[index] = frame
	}
	return frames, nil
}

func checkOffset(op string, channel cortical.ChannelIndex, width uint32) error {
	if (uint64(channel)+1)*uint64(width) > math.MaxUint32 {
		return fault.BadParameters(op, "channel %d overflows the x axis", channel)
	}
	return nil
}

// SegmentedImage writes segmented frames into nine areas, one per
// segment, in segment order.
type SegmentedImage struct {
	areas      [imageframe.SegmentCount]cortical.ID
	properties imageframe.SegmentedProperties
}

// NewSegmentedImage returns a segmented image encoder. areas[i]
// receives segment i.
func NewSegmentedImage(areas [imageframe.SegmentCount]cortical.ID, properties imageframe.SegmentedProperties) (*SegmentedImage, error) {
	const op = "neuroncoder.NewSegmentedImage"
	for _, area := range areas {
		if err := checkArea(op, area); err != nil {
			return nil, err
		}
	}
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	return &SegmentedImage{areas: areas, properties: properties}, nil
}

// InputType implements Encoder.
func (segmented *SegmentedImage) InputType() iovalue.Type {
	return iovalue.SegmentedImageFrameType(segmented.properties)
}

// Areas returns the nine target areas in segment order.
func (segmented *SegmentedImage) Areas() [imageframe.SegmentCount]cortical.ID { return segmented.areas }

// WriteSingleChannel implements Encoder.
func (segmented *SegmentedImage) WriteSingleChannel(value iovalue.Value, channel cortical.ChannelIndex, neurons *neuron.CorticalMap) error {
	return segmented.WriteMultiChannel([]ChannelValue{{Channel: channel, Value: value}}, neurons)
}

// WriteMultiChannel implements BatchEncoder.
func (segmented *SegmentedImage) WriteMultiChannel(values []ChannelValue, neurons *neuron.CorticalMap) error {
	const op = "neuroncoder.SegmentedImage"
	frames := make([]*imageframe.SegmentedFrame, len(values))
	for index, entry := range values {
		frame, err := entry.Value.Segmented()
		if err != nil {
			return err
		}
		if frame.Properties() != segmented.properties {
			return fault.BadParameters(op, "channel %d frame is %s, encoder expects %s",
				entry.Channel, frame.Properties(), segmented.properties)
		}
		for segment := range imageframe.SegmentCount {
			if err := checkOffset(op, entry.Channel, segmented.properties.Segment(segment).Resolution.Width); err != nil {
				return err
			}
		}
		frames[index] = frame
	}
	for segment, area := range segmented.areas {
		properties := segmented.properties.Segment(segment)
		capacity := len(values) * properties.ValueCount()
		err := neurons.WithClearedArrays(area, capacity, func(arrays *neuron.Arrays) error {
			for index, frame := range frames {
				offset := uint32(values[index].Channel) * properties.Resolution.Width
				frame.Segment(segment).WriteNeurons(arrays, offset)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
