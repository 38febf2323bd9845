// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package iovalue

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindF32
	KindF32Normalized0To1
	KindF32NormalizedM1To1
	KindImageFrame
	KindSegmentedImageFrame
)

func (kind Kind) String() string {
	switch kind {
	case KindF32:
		return "F32"
	case KindF32Normalized0To1:
		return "F32Normalized0To1"
	case KindF32NormalizedM1To1:
		return "F32NormalizedM1To1"
	case KindImageFrame:
		return "ImageFrame"
	case KindSegmentedImageFrame:
		return "SegmentedImageFrame"
	default:
		return "Invalid"
	}
}

// ParseKind parses the String form of a scalar or image kind.
func ParseKind(name string) (Kind, error) {
	for kind := KindF32; kind <= KindSegmentedImageFrame; kind++ {
		if kind.String() == name {
			return kind, nil
		}
	}
	return KindInvalid, fault.BadParameters("iovalue.ParseKind", "unknown value kind %q", name)
}

// IsFloat reports whether the kind carries a scalar float.
func (kind Kind) IsFloat() bool {
	return kind == KindF32 || kind == KindF32Normalized0To1 || kind == KindF32NormalizedM1To1
}

// Type describes a Value without carrying data. Image is meaningful
// only for KindImageFrame and Segmented only for
// KindSegmentedImageFrame; both are zero otherwise.
type Type struct {
	Kind      Kind
	Image     imageframe.Properties
	Segmented imageframe.SegmentedProperties
}

// Scalar type descriptors.
var (
	F32Type                = Type{Kind: KindF32}
	F32Normalized0To1Type  = Type{Kind: KindF32Normalized0To1}
	F32NormalizedM1To1Type = Type{Kind: KindF32NormalizedM1To1}
)

// ImageFrameType returns the image type with the given properties.
// Pass zero properties for "any shape".
func ImageFrameType(properties imageframe.Properties) Type {
	return Type{Kind: KindImageFrame, Image: properties}
}

// SegmentedImageFrameType returns the segmented image type with the
// given properties.
func SegmentedImageFrameType(properties imageframe.SegmentedProperties) Type {
	return Type{Kind: KindSegmentedImageFrame, Segmented: properties}
}

func (t Type) String() string {
	switch t.Kind {
	case KindImageFrame:
		return fmt.Sprintf("ImageFrame(%s)", t.Image)
	case KindSegmentedImageFrame:
		return fmt.Sprintf("SegmentedImageFrame(%s)", t.Segmented)
	default:
		return t.Kind.String()
	}
}
