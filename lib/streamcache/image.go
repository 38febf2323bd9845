// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package streamcache

import (
	"math"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// ImageQuickDiff outputs the pixels of each frame that differ from the
// previous frame by more than a threshold. It double-buffers input:
// each call writes into the buffer not written last time and compares
// against the other.
type ImageQuickDiff struct {
	properties imageframe.Properties
	threshold  float32
	bufferA    *imageframe.Frame
	bufferB    *imageframe.Frame
	output     *imageframe.Frame
	writeToA   bool
	latest     iovalue.Value
}

// NewImageQuickDiff allocates the three buffers for frames of the given
// shape. threshold must be finite and non-negative.
func NewImageQuickDiff(properties imageframe.Properties, threshold float32) (*ImageQuickDiff, error) {
	const op = "streamcache.NewImageQuickDiff"
	if math.IsNaN(float64(threshold)) || math.IsInf(float64(threshold), 0) || threshold < 0 {
		return nil, fault.BadParameters(op, "threshold must be finite and non-negative, got %v", threshold)
	}
	if properties.IsZero() {
		return nil, fault.BadParameters(op, "image properties are required to size the buffers")
	}
	diff := &ImageQuickDiff{properties: properties, threshold: threshold, writeToA: true}
	var err error
	if diff.bufferA, err = imageframe.NewFrame(properties); err != nil {
		return nil, err
	}
	diff.bufferB, _ = imageframe.NewFrame(properties)
	diff.output, _ = imageframe.NewFrame(properties)
	diff.latest, _ = iovalue.ImageFrame(diff.output)
	return diff, nil
}

func (diff *ImageQuickDiff) InputType() iovalue.Type      { return iovalue.ImageFrameType(diff.properties) }
func (diff *ImageQuickDiff) OutputType() iovalue.Type     { return iovalue.ImageFrameType(diff.properties) }
func (diff *ImageQuickDiff) LatestOutput() iovalue.Value { return diff.latest }

// Process implements Processor.
func (diff *ImageQuickDiff) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	frame, err := input.Image()
	if err != nil {
		return iovalue.Value{}, err
	}
	current, previous := diff.bufferB, diff.bufferA
	if diff.writeToA {
		current, previous = diff.bufferA, diff.bufferB
	}
	if err := current.CopyFrom(frame); err != nil {
		return iovalue.Value{}, err
	}
	if err := imageframe.Diff(current, previous, diff.output, diff.threshold); err != nil {
		return iovalue.Value{}, err
	}
	diff.writeToA = !diff.writeToA
	return diff.latest, nil
}

// ImageTransform delegates pixel work to an imageframe.Transformer and
// owns the output buffer.
type ImageTransform struct {
	input       imageframe.Properties
	transformer imageframe.Transformer
	output      *imageframe.Frame
	latest      iovalue.Value
}

// NewImageTransform sizes the output buffer from the transformer's
// declared output for the given input shape.
func NewImageTransform(input imageframe.Properties, transformer imageframe.Transformer) (*ImageTransform, error) {
	if transformer == nil {
		return nil, fault.BadParameters("streamcache.NewImageTransform", "nil transformer")
	}
	outputProperties, err := transformer.OutputProperties(input)
	if err != nil {
		return nil, err
	}
	output, err := imageframe.NewFrame(outputProperties)
	if err != nil {
		return nil, err
	}
	latest, _ := iovalue.ImageFrame(output)
	return &ImageTransform{input: input, transformer: transformer, output: output, latest: latest}, nil
}

func (transform *ImageTransform) InputType() iovalue.Type { return iovalue.ImageFrameType(transform.input) }
func (transform *ImageTransform) OutputType() iovalue.Type {
	return iovalue.ImageFrameType(transform.output.Properties())
}
func (transform *ImageTransform) LatestOutput() iovalue.Value { return transform.latest }

// Process implements Processor.
func (transform *ImageTransform) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	frame, err := input.Image()
	if err != nil {
		return iovalue.Value{}, err
	}
	if err := transform.transformer.Apply(frame, transform.output); err != nil {
		return iovalue.Value{}, err
	}
	return transform.latest, nil
}

// ImageSegmentor splits frames into segmented frames via an
// imageframe.Segmenter.
type ImageSegmentor struct {
	input     imageframe.Properties
	segmenter imageframe.Segmenter
	output    *imageframe.SegmentedFrame
	latest    iovalue.Value
}

// NewImageSegmentor sizes the nine output buffers from the segmenter's
// declared output for the given input shape.
func NewImageSegmentor(input imageframe.Properties, segmenter imageframe.Segmenter) (*ImageSegmentor, error) {
	if segmenter == nil {
		return nil, fault.BadParameters("streamcache.NewImageSegmentor", "nil segmenter")
	}
	outputProperties, err := segmenter.OutputProperties(input)
	if err != nil {
		return nil, err
	}
	output, err := imageframe.NewSegmentedFrame(outputProperties)
	if err != nil {
		return nil, err
	}
	latest, _ := iovalue.SegmentedImageFrame(output)
	return &ImageSegmentor{input: input, segmenter: segmenter, output: output, latest: latest}, nil
}

func (segmentor *ImageSegmentor) InputType() iovalue.Type {
	return iovalue.ImageFrameType(segmentor.input)
}
func (segmentor *ImageSegmentor) OutputType() iovalue.Type {
	return iovalue.SegmentedImageFrameType(segmentor.output.Properties())
}
func (segmentor *ImageSegmentor) LatestOutput() iovalue.Value { return segmentor.latest }

// Process implements Processor.
func (segmentor *ImageSegmentor) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	frame, err := input.Image()
	if err != nil {
		return iovalue.Value{}, err
	}
	if err := segmentor.segmenter.Apply(frame, segmentor.output); err != nil {
		return iovalue.Value{}, err
	}
	return segmentor.latest, nil
}
