// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinedef

import (
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
)

// StageType names a stage implementation.
type StageType string

const (
	StageIdentity         StageType = "identity"
	StageLinearScale0To1  StageType = "linear_scale_0_1"
	StageLinearScaleM1To1 StageType = "linear_scale_m1_1"
	StageRollingAverage   StageType = "rolling_average"
	StageImageQuickDiff   StageType = "image_quick_diff"
	StageImageCropResize  StageType = "image_crop_resize"
	StageImageSegment     StageType = "image_segment"
)

// Definition is a declarative stage chain.
type Definition struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Stages      []Stage `json:"stages" yaml:"stages"`
}

// Stage is one entry of a chain. Which fields apply depends on Type.
type Stage struct {
	Type StageType `json:"type" yaml:"type"`

	// Kind is the value kind for identity and rolling_average, in
	// iovalue.Kind String form ("F32", "F32Normalized0To1", ...).
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Lower and Upper bound the raw input of the linear scales.
	Lower *float32 `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper *float32 `json:"upper,omitempty" yaml:"upper,omitempty"`

	// Initial is the output before the first input, for linear scales
	// and rolling averages. Linear scales default to Lower.
	Initial *float32 `json:"initial,omitempty" yaml:"initial,omitempty"`

	// Window is the rolling average length.
	Window int `json:"window,omitempty" yaml:"window,omitempty"`

	// Threshold is the per-pixel change image_quick_diff passes on.
	Threshold float32 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Image is the input shape of an image stage, or the value shape of
	// an identity stage over ImageFrame. Required on the first image
	// stage of a chain.
	Image *ImageSpec `json:"image,omitempty" yaml:"image,omitempty"`

	// Crop, Resize and Grayscale configure image_crop_resize.
	Crop      *RegionSpec     `json:"crop,omitempty" yaml:"crop,omitempty"`
	Resize    *ResolutionSpec `json:"resize,omitempty" yaml:"resize,omitempty"`
	Grayscale bool            `json:"grayscale,omitempty" yaml:"grayscale,omitempty"`

	// Center and Peripheral are the segment resolutions of
	// image_segment.
	Center     *ResolutionSpec `json:"center,omitempty" yaml:"center,omitempty"`
	Peripheral *ResolutionSpec `json:"peripheral,omitempty" yaml:"peripheral,omitempty"`
}

// ImageSpec declares a frame shape.
type ImageSpec struct {
	Width      uint32 `json:"width" yaml:"width"`
	Height     uint32 `json:"height" yaml:"height"`
	Layout     string `json:"layout" yaml:"layout"`
	ColorSpace string `json:"color_space,omitempty" yaml:"color_space,omitempty"`
}

// Properties converts the image description into frame properties.
func (spec ImageSpec) Properties() (imageframe.Properties, error) {
	layout, err := imageframe.ParseChannelLayout(spec.Layout)
	if err != nil {
		return imageframe.Properties{}, err
	}
	colorSpace, err := imageframe.ParseColorSpace(spec.ColorSpace)
	if err != nil {
		return imageframe.Properties{}, err
	}
	properties := imageframe.Properties{
		Resolution: imageframe.Resolution{Width: spec.Width, Height: spec.Height},
		Layout:     layout,
		ColorSpace: colorSpace,
	}
	return properties, properties.Validate()
}

// ResolutionSpec declares a width and height.
type ResolutionSpec struct {
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

func (spec *ResolutionSpec) resolution() imageframe.Resolution {
	if spec == nil {
		return imageframe.Resolution{}
	}
	return imageframe.Resolution{Width: spec.Width, Height: spec.Height}
}

// RegionSpec declares a crop rectangle.
type RegionSpec struct {
	X      uint32 `json:"x" yaml:"x"`
	Y      uint32 `json:"y" yaml:"y"`
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}
