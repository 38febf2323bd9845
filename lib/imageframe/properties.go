// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package imageframe

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// ChannelLayout is the number and meaning of color channels per pixel.
type ChannelLayout uint8

const (
	GrayScale ChannelLayout = 1
	RG        ChannelLayout = 2
	RGB       ChannelLayout = 3
	RGBA      ChannelLayout = 4
)

// Channels returns the channel count.
func (layout ChannelLayout) Channels() int {
	return int(layout)
}

func (layout ChannelLayout) String() string {
	switch layout {
	case GrayScale:
		return "gray"
	case RG:
		return "rg"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("layout(%d)", uint8(layout))
	}
}

// ParseChannelLayout parses the String form of a layout.
func ParseChannelLayout(name string) (ChannelLayout, error) {
	switch name {
	case "gray":
		return GrayScale, nil
	case "rg":
		return RG, nil
	case "rgb":
		return RGB, nil
	case "rgba":
		return RGBA, nil
	default:
		return 0, fault.BadParameters("imageframe.ParseChannelLayout", "unknown channel layout %q", name)
	}
}

// ColorSpace describes how pixel intensities are encoded.
type ColorSpace uint8

const (
	Linear ColorSpace = iota
	Gamma
)

func (space ColorSpace) String() string {
	if space == Gamma {
		return "gamma"
	}
	return "linear"
}

// ParseColorSpace parses the String form of a color space.
func ParseColorSpace(name string) (ColorSpace, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "gamma":
		return Gamma, nil
	default:
		return 0, fault.BadParameters("imageframe.ParseColorSpace", "unknown color space %q", name)
	}
}

// Resolution is a width and height in pixels.
type Resolution struct {
	Width  uint32
	Height uint32
}

// Properties fully describes a frame's shape and encoding. The zero
// value means "unspecified" when used inside a type descriptor.
type Properties struct {
	Resolution Resolution
	Layout     ChannelLayout
	ColorSpace ColorSpace
}

// IsZero reports whether p is the unspecified descriptor.
func (p Properties) IsZero() bool {
	return p == Properties{}
}

// Validate rejects zero-sized resolutions and unknown layouts.
func (p Properties) Validate() error {
	if p.Resolution.Width == 0 || p.Resolution.Height == 0 {
		return fault.BadParameters("imageframe.Properties",
			"resolution %dx%d must be nonzero", p.Resolution.Width, p.Resolution.Height)
	}
	if p.Layout < GrayScale || p.Layout > RGBA {
		return fault.BadParameters("imageframe.Properties", "unknown channel layout %d", p.Layout)
	}
	if p.ColorSpace > Gamma {
		return fault.BadParameters("imageframe.Properties", "unknown color space %d", p.ColorSpace)
	}
	return nil
}

// ValueCount returns width*height*channels, the buffer length.
func (p Properties) ValueCount() int {
	return int(p.Resolution.Width) * int(p.Resolution.Height) * p.Layout.Channels()
}

func (p Properties) String() string {
	if p.IsZero() {
		return "any"
	}
	return fmt.Sprintf("%dx%d/%s/%s", p.Resolution.Width, p.Resolution.Height, p.Layout, p.ColorSpace)
}

// SegmentCount is the number of segments in a segmented frame.
const SegmentCount = 9

// SegmentedProperties describes a segmented frame: one center segment
// and eight peripheral segments sharing a resolution.
type SegmentedProperties struct {
	Center     Properties
	Peripheral Properties
}

// IsZero reports whether p is the unspecified descriptor.
func (p SegmentedProperties) IsZero() bool {
	return p == SegmentedProperties{}
}

// Validate validates both segment shapes and requires a shared color
// space and layout.
func (p SegmentedProperties) Validate() error {
	if err := p.Center.Validate(); err != nil {
		return fmt.Errorf("center: %w", err)
	}
	if err := p.Peripheral.Validate(); err != nil {
		return fmt.Errorf("peripheral: %w", err)
	}
	if p.Center.Layout != p.Peripheral.Layout || p.Center.ColorSpace != p.Peripheral.ColorSpace {
		return fault.BadParameters("imageframe.SegmentedProperties",
			"center %s and peripheral %s must share layout and color space", p.Center, p.Peripheral)
	}
	return nil
}

// Segment returns the properties of segment index (0 is the center).
func (p SegmentedProperties) Segment(index int) Properties {
	if index == 0 {
		return p.Center
	}
	return p.Peripheral
}

func (p SegmentedProperties) String() string {
	if p.IsZero() {
		return "any"
	}
	return fmt.Sprintf("center=%s,peripheral=%s", p.Center, p.Peripheral)
}
