// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package iovalue

import (
	"math"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
)

// Value is one I/O datum. The zero Value is KindInvalid; construct
// values with the functions below.
//
// Image variants hold a pointer to the frame. Stages that keep frames
// across calls own them; a Value returned by a stage aliases that
// stage's buffer until its next Process call.
type Value struct {
	kind      Kind
	scalar    float32
	image     *imageframe.Frame
	segmented *imageframe.SegmentedFrame
}

func checkFinite(op string, value float32) error {
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return fault.BadParameters(op, "value %v is not finite", value)
	}
	return nil
}

// F32 wraps an unbounded finite float.
func F32(value float32) (Value, error) {
	if err := checkFinite("iovalue.F32", value); err != nil {
		return Value{}, err
	}
	return Value{kind: KindF32, scalar: value}, nil
}

// Normalized0To1 wraps a finite float in [0, 1].
func Normalized0To1(value float32) (Value, error) {
	if err := checkFinite("iovalue.Normalized0To1", value); err != nil {
		return Value{}, err
	}
	if value < 0 || value > 1 {
		return Value{}, fault.BadParameters("iovalue.Normalized0To1", "value %v is outside [0, 1]", value)
	}
	return Value{kind: KindF32Normalized0To1, scalar: value}, nil
}

// Normalized0To1Clamped saturates a finite float into [0, 1].
func Normalized0To1Clamped(value float32) (Value, error) {
	if err := checkFinite("iovalue.Normalized0To1Clamped", value); err != nil {
		return Value{}, err
	}
	return Value{kind: KindF32Normalized0To1, scalar: min(max(value, 0), 1)}, nil
}

// NormalizedM1To1 wraps a finite float in [-1, 1].
func NormalizedM1To1(value float32) (Value, error) {
	if err := checkFinite("iovalue.NormalizedM1To1", value); err != nil {
		return Value{}, err
	}
	if value < -1 || value > 1 {
		return Value{}, fault.BadParameters("iovalue.NormalizedM1To1", "value %v is outside [-1, 1]", value)
	}
	return Value{kind: KindF32NormalizedM1To1, scalar: value}, nil
}

// NormalizedM1To1Clamped saturates a finite float into [-1, 1].
func NormalizedM1To1Clamped(value float32) (Value, error) {
	if err := checkFinite("iovalue.NormalizedM1To1Clamped", value); err != nil {
		return Value{}, err
	}
	return Value{kind: KindF32NormalizedM1To1, scalar: min(max(value, -1), 1)}, nil
}

// Float builds a value of the given float kind, validating the range
// that kind requires.
func Float(kind Kind, value float32) (Value, error) {
	switch kind {
	case KindF32:
		return F32(value)
	case KindF32Normalized0To1:
		return Normalized0To1(value)
	case KindF32NormalizedM1To1:
		return NormalizedM1To1(value)
	default:
		return Value{}, fault.BadParameters("iovalue.Float", "%s is not a float kind", kind)
	}
}

// FloatClamped is Float with saturation for the normalized kinds.
func FloatClamped(kind Kind, value float32) (Value, error) {
	switch kind {
	case KindF32:
		return F32(value)
	case KindF32Normalized0To1:
		return Normalized0To1Clamped(value)
	case KindF32NormalizedM1To1:
		return NormalizedM1To1Clamped(value)
	default:
		return Value{}, fault.BadParameters("iovalue.FloatClamped", "%s is not a float kind", kind)
	}
}

// ZeroOf returns the neutral value of a scalar type: 0 for every float
// kind. Image types have no neutral value without a buffer and return
// an error.
func ZeroOf(t Type) (Value, error) {
	if !t.Kind.IsFloat() {
		return Value{}, fault.BadParameters("iovalue.ZeroOf", "%s has no neutral value", t)
	}
	return Value{kind: t.Kind}, nil
}

// ImageFrame wraps a frame. Fails on nil.
func ImageFrame(frame *imageframe.Frame) (Value, error) {
	if frame == nil {
		return Value{}, fault.BadParameters("iovalue.ImageFrame", "nil frame")
	}
	return Value{kind: KindImageFrame, image: frame}, nil
}

// SegmentedImageFrame wraps a segmented frame. Fails on nil.
func SegmentedImageFrame(frame *imageframe.SegmentedFrame) (Value, error) {
	if frame == nil {
		return Value{}, fault.BadParameters("iovalue.SegmentedImageFrame", "nil frame")
	}
	return Value{kind: KindSegmentedImageFrame, segmented: frame}, nil
}

// Kind returns the variant tag.
func (value Value) Kind() Kind {
	return value.kind
}

// Type returns the value's full type, including image properties.
func (value Value) Type() Type {
	switch value.kind {
	case KindImageFrame:
		return ImageFrameType(value.image.Properties())
	case KindSegmentedImageFrame:
		return SegmentedImageFrameType(value.segmented.Properties())
	default:
		return Type{Kind: value.kind}
	}
}

// MatchesType reports whether value may flow into a slot declared as
// t. Image types with zero properties accept any shape.
func (value Value) MatchesType(t Type) bool {
	if value.kind != t.Kind {
		return false
	}
	switch t.Kind {
	case KindImageFrame:
		return t.Image.IsZero() || t.Image == value.image.Properties()
	case KindSegmentedImageFrame:
		return t.Segmented.IsZero() || t.Segmented == value.segmented.Properties()
	default:
		return true
	}
}

// Float returns the scalar of a float kind.
func (value Value) Float() (float32, error) {
	if !value.kind.IsFloat() {
		return 0, fault.BadParameters("iovalue.Value.Float", "%s does not carry a float", value.kind)
	}
	return value.scalar, nil
}

// Image returns the frame of an ImageFrame value.
func (value Value) Image() (*imageframe.Frame, error) {
	if value.kind != KindImageFrame {
		return nil, fault.BadParameters("iovalue.Value.Image", "%s does not carry an image frame", value.kind)
	}
	return value.image, nil
}

// Segmented returns the frame of a SegmentedImageFrame value.
func (value Value) Segmented() (*imageframe.SegmentedFrame, error) {
	if value.kind != KindSegmentedImageFrame {
		return nil, fault.BadParameters("iovalue.Value.Segmented", "%s does not carry a segmented frame", value.kind)
	}
	return value.segmented, nil
}

// IsValid reports whether value was built by a constructor.
func (value Value) IsValid() bool {
	return value.kind != KindInvalid
}

// Equal compares kinds and payloads. Images compare by content.
func (value Value) Equal(other Value) bool {
	if value.kind != other.kind {
		return false
	}
	switch value.kind {
	case KindImageFrame:
		return value.image.Equal(other.image)
	case KindSegmentedImageFrame:
		return value.segmented.Equal(other.segmented)
	default:
		return value.scalar == other.scalar
	}
}
