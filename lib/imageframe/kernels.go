// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package imageframe

import "github.com/cortexbridge/cortexbridge/lib/fault"

// Transformer converts frames of one shape into frames of another.
type Transformer interface {
	// OutputProperties returns the shape produced for input frames of
	// the given shape, or an error if the input is unsupported.
	OutputProperties(input Properties) (Properties, error)

	// Apply writes the transformed source into destination, which has
	// the shape returned by OutputProperties.
	Apply(source, destination *Frame) error
}

// Segmenter splits a frame into a segmented frame.
type Segmenter interface {
	OutputProperties(input Properties) (SegmentedProperties, error)
	Apply(source *Frame, destination *SegmentedFrame) error
}

// Region is a rectangle in pixel coordinates. A zero Region selects
// the whole frame.
type Region struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// CropResize crops to Region, optionally collapses color to one
// channel by averaging, then resamples to Output with nearest-neighbour
// sampling. A zero Output keeps the cropped size.
type CropResize struct {
	Region    Region
	Output    Resolution
	Grayscale bool
}

func (transform CropResize) region(input Properties) (Region, error) {
	region := transform.Region
	if region == (Region{}) {
		region = Region{Width: input.Resolution.Width, Height: input.Resolution.Height}
	}
	if region.Width == 0 || region.Height == 0 ||
		uint64(region.X)+uint64(region.Width) > uint64(input.Resolution.Width) ||
		uint64(region.Y)+uint64(region.Height) > uint64(input.Resolution.Height) {
		return Region{}, fault.BadParameters("imageframe.CropResize",
			"crop region %+v does not fit in %s", region, input)
	}
	return region, nil
}

// OutputProperties implements Transformer.
func (transform CropResize) OutputProperties(input Properties) (Properties, error) {
	if err := input.Validate(); err != nil {
		return Properties{}, err
	}
	region, err := transform.region(input)
	if err != nil {
		return Properties{}, err
	}
	output := Properties{
		Resolution: transform.Output,
		Layout:     input.Layout,
		ColorSpace: input.ColorSpace,
	}
	if output.Resolution == (Resolution{}) {
		output.Resolution = Resolution{Width: region.Width, Height: region.Height}
	}
	if transform.Grayscale {
		output.Layout = GrayScale
	}
	return output, output.Validate()
}

// Apply implements Transformer.
func (transform CropResize) Apply(source, destination *Frame) error {
	expected, err := transform.OutputProperties(source.properties)
	if err != nil {
		return err
	}
	if destination.properties != expected {
		return fault.BadParameters("imageframe.CropResize.Apply",
			"destination is %s, want %s", destination.properties, expected)
	}
	region, _ := transform.region(source.properties)
	sample(source, region, destination, transform.Grayscale)
	return nil
}

// sample resamples region of source into destination with
// nearest-neighbour lookup. When collapse is set, the source channels
// are averaged into destination's single channel.
func sample(source *Frame, region Region, destination *Frame, collapse bool) {
	outWidth := int(destination.properties.Resolution.Width)
	outHeight := int(destination.properties.Resolution.Height)
	sourceChannels := source.properties.Layout.Channels()
	for row := range outHeight {
		sourceRow := int(region.Y) + row*int(region.Height)/outHeight
		for column := range outWidth {
			sourceColumn := int(region.X) + column*int(region.Width)/outWidth
			if collapse {
				var sum float32
				for channel := range sourceChannels {
					sum += source.At(sourceRow, sourceColumn, channel)
				}
				destination.Set(row, column, 0, sum/float32(sourceChannels))
				continue
			}
			for channel := range sourceChannels {
				destination.Set(row, column, channel, source.At(sourceRow, sourceColumn, channel))
			}
		}
	}
}

// GridSegmenter splits a frame into a 3x3 grid. The middle cell becomes
// segment 0 at Center resolution; the eight surrounding cells become
// segments 1..8 (clockwise from top-left) at Peripheral resolution.
type GridSegmenter struct {
	Center     Resolution
	Peripheral Resolution
}

// gridCells lists the (row, column) grid cell for each segment index.
var gridCells = [SegmentCount][2]uint32{
	{1, 1},
	{0, 0}, {0, 1}, {0, 2},
	{1, 2},
	{2, 2}, {2, 1}, {2, 0},
	{1, 0},
}

// OutputProperties implements Segmenter.
func (segmenter GridSegmenter) OutputProperties(input Properties) (SegmentedProperties, error) {
	if err := input.Validate(); err != nil {
		return SegmentedProperties{}, err
	}
	if input.Resolution.Width < 3 || input.Resolution.Height < 3 {
		return SegmentedProperties{}, fault.BadParameters("imageframe.GridSegmenter",
			"input %s is smaller than the 3x3 grid", input)
	}
	output := SegmentedProperties{
		Center:     Properties{Resolution: segmenter.Center, Layout: input.Layout, ColorSpace: input.ColorSpace},
		Peripheral: Properties{Resolution: segmenter.Peripheral, Layout: input.Layout, ColorSpace: input.ColorSpace},
	}
	return output, output.Validate()
}

// Apply implements Segmenter.
func (segmenter GridSegmenter) Apply(source *Frame, destination *SegmentedFrame) error {
	expected, err := segmenter.OutputProperties(source.properties)
	if err != nil {
		return err
	}
	if destination.properties != expected {
		return fault.BadParameters("imageframe.GridSegmenter.Apply",
			"destination is %s, want %s", destination.properties, expected)
	}
	cellWidth := source.properties.Resolution.Width / 3
	cellHeight := source.properties.Resolution.Height / 3
	for index, cell := range gridCells {
		region := Region{
			X:      cell[1] * cellWidth,
			Y:      cell[0] * cellHeight,
			Width:  cellWidth,
			Height: cellHeight,
		}
		sample(source, region, destination.segments[index], false)
	}
	return nil
}
