// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuroncoder

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
)

// Encoding names a neuron encoding in configuration files.
type Encoding string

const (
	EncodingLinear           Encoding = "linear"
	EncodingSplitSignDivided Encoding = "split_sign_divided"
	EncodingBidirectional    Encoding = "bidirectional"
	EncodingImage            Encoding = "image"
	EncodingSegmentedImage   Encoding = "segmented_image"
)

// Encodings lists every known encoding.
var Encodings = []Encoding{
	EncodingLinear,
	EncodingSplitSignDivided,
	EncodingBidirectional,
	EncodingImage,
	EncodingSegmentedImage,
}

// Valid reports whether encoding is one of Encodings.
func (encoding Encoding) Valid() bool {
	for _, known := range Encodings {
		if encoding == known {
			return true
		}
	}
	return false
}

// Decodable reports whether the encoding has a decoder.
func (encoding Encoding) Decodable() bool {
	switch encoding {
	case EncodingLinear, EncodingSplitSignDivided, EncodingBidirectional:
		return true
	default:
		return false
	}
}

// Params describes one area's encoding for [New] and [NewDecoder].
type Params struct {
	Encoding Encoding
	AreaType cortical.AreaType
	Group    cortical.GroupIndex

	// Dimensions is required for the linear and split-sign encodings.
	Dimensions cortical.Dimensions

	// Image is required for EncodingImage.
	Image imageframe.Properties

	// Segmented is required for EncodingSegmentedImage.
	Segmented imageframe.SegmentedProperties

	// Resolver maps the area type and group onto a cortical identifier.
	// Nil uses cortical.SuffixResolver.
	Resolver cortical.Resolver
}

func (params Params) resolve() (cortical.ID, error) {
	resolver := params.Resolver
	if resolver == nil {
		resolver = cortical.SuffixResolver{}
	}
	id, err := resolver.Resolve(params.AreaType, params.Group)
	if err != nil {
		return cortical.ID{}, fmt.Errorf("resolving %s group %d: %w", params.AreaType, params.Group, err)
	}
	return id, nil
}

// New builds the encoder named by params.Encoding.
func New(params Params) (Encoder, error) {
	switch params.Encoding {
	case EncodingSegmentedImage:
		areas, err := cortical.ResolveSegments(params.AreaType, params.Group)
		if err != nil {
			return nil, err
		}
		return encoderOrNil(NewSegmentedImage(areas, params.Segmented))
	case EncodingLinear, EncodingSplitSignDivided, EncodingBidirectional, EncodingImage:
	default:
		return nil, fault.Configuration("neuroncoder.New", "unknown encoding %q", params.Encoding)
	}
	area, err := params.resolve()
	if err != nil {
		return nil, err
	}
	switch params.Encoding {
	case EncodingLinear:
		return encoderOrNil(NewLinear(area, params.Dimensions))
	case EncodingSplitSignDivided:
		return encoderOrNil(NewSplitSignDivided(area, params.Dimensions.Z))
	case EncodingBidirectional:
		return encoderOrNil(NewBidirectional(area))
	default:
		return encoderOrNil(NewImage(area, params.Image))
	}
}

// NewDecoder builds the decoder named by params.Encoding. Image
// encodings have no decoder.
func NewDecoder(params Params) (Decoder, error) {
	if !params.Encoding.Decodable() {
		return nil, fault.Configuration("neuroncoder.NewDecoder", "encoding %q has no decoder", params.Encoding)
	}
	area, err := params.resolve()
	if err != nil {
		return nil, err
	}
	switch params.Encoding {
	case EncodingLinear:
		return decoderOrNil(NewLinear(area, params.Dimensions))
	case EncodingSplitSignDivided:
		return decoderOrNil(NewSplitSignDivided(area, params.Dimensions.Z))
	default:
		return decoderOrNil(NewBidirectional(area))
	}
}

// encoderOrNil keeps a failed constructor's typed nil pointer out of
// the interface.
func encoderOrNil[E Encoder](encoder E, err error) (Encoder, error) {
	if err != nil {
		return nil, err
	}
	return encoder, nil
}

func decoderOrNil[D Decoder](decoder D, err error) (Decoder, error) {
	if err != nil {
		return nil, err
	}
	return decoder, nil
}
