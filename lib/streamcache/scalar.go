// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package streamcache

import (
	"fmt"
	"math"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// Identity returns its input unchanged.
type Identity struct {
	valueType iovalue.Type
	latest    iovalue.Value
}

// NewIdentity returns a pass-through stage for values of type t. The
// initial output is zero for float types and a black frame for shaped
// image types; for image types without properties there is no initial
// output until the first Process call.
func NewIdentity(t iovalue.Type) (*Identity, error) {
	identity := &Identity{valueType: t}
	switch {
	case t.Kind.IsFloat():
		identity.latest, _ = iovalue.ZeroOf(t)
	case t.Kind == iovalue.KindImageFrame && !t.Image.IsZero():
		frame, err := imageframe.NewFrame(t.Image)
		if err != nil {
			return nil, err
		}
		identity.latest, _ = iovalue.ImageFrame(frame)
	case t.Kind == iovalue.KindSegmentedImageFrame && !t.Segmented.IsZero():
		frame, err := imageframe.NewSegmentedFrame(t.Segmented)
		if err != nil {
			return nil, err
		}
		identity.latest, _ = iovalue.SegmentedImageFrame(frame)
	case t.Kind == iovalue.KindImageFrame, t.Kind == iovalue.KindSegmentedImageFrame:
	default:
		return nil, fault.BadParameters("streamcache.NewIdentity", "invalid type %s", t)
	}
	return identity, nil
}

func (identity *Identity) InputType() iovalue.Type      { return identity.valueType }
func (identity *Identity) OutputType() iovalue.Type     { return identity.valueType }
func (identity *Identity) LatestOutput() iovalue.Value { return identity.latest }

// Process implements Processor.
func (identity *Identity) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	if !input.MatchesType(identity.valueType) {
		return iovalue.Value{}, fault.BadParameters("streamcache.Identity",
			"input %s does not match %s", input.Type(), identity.valueType)
	}
	identity.latest = input
	return input, nil
}

// LinearScale clamps an F32 input to [lower, upper] and maps it
// linearly onto the output range of its normalized kind.
type LinearScale struct {
	lower      float32
	upper      float32
	outputKind iovalue.Kind
	latest     iovalue.Value
}

// NewLinearScaleTo0And1 maps [lower, upper] onto [0, 1].
func NewLinearScaleTo0And1(lower, upper, initial float32) (*LinearScale, error) {
	return newLinearScale(iovalue.KindF32Normalized0To1, lower, upper, initial)
}

// NewLinearScaleToM1And1 maps [lower, upper] onto [-1, 1].
func NewLinearScaleToM1And1(lower, upper, initial float32) (*LinearScale, error) {
	return newLinearScale(iovalue.KindF32NormalizedM1To1, lower, upper, initial)
}

func newLinearScale(outputKind iovalue.Kind, lower, upper, initial float32) (*LinearScale, error) {
	const op = "streamcache.NewLinearScale"
	for _, bound := range []float32{lower, upper, initial} {
		if math.IsNaN(float64(bound)) || math.IsInf(float64(bound), 0) {
			return nil, fault.BadParameters(op, "bounds and initial value must be finite, got lower=%v upper=%v initial=%v",
				lower, upper, initial)
		}
	}
	if lower >= upper {
		return nil, fault.BadParameters(op, "lower bound %v must be below upper bound %v", lower, upper)
	}
	if initial < lower || initial > upper {
		return nil, fault.BadParameters(op, "initial value %v is outside [%v, %v]", initial, lower, upper)
	}
	scale := &LinearScale{lower: lower, upper: upper, outputKind: outputKind}
	latest, err := scale.scale(initial)
	if err != nil {
		return nil, err
	}
	scale.latest = latest
	return scale, nil
}

func (scale *LinearScale) scale(input float32) (iovalue.Value, error) {
	clamped := min(max(input, scale.lower), scale.upper)
	fraction := (clamped - scale.lower) / (scale.upper - scale.lower)
	if scale.outputKind == iovalue.KindF32NormalizedM1To1 {
		return iovalue.NormalizedM1To1Clamped(fraction*2 - 1)
	}
	return iovalue.Normalized0To1Clamped(fraction)
}

func (scale *LinearScale) InputType() iovalue.Type      { return iovalue.F32Type }
func (scale *LinearScale) OutputType() iovalue.Type     { return iovalue.Type{Kind: scale.outputKind} }
func (scale *LinearScale) LatestOutput() iovalue.Value { return scale.latest }

// Process implements Processor.
func (scale *LinearScale) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	if input.Kind() != iovalue.KindF32 {
		return iovalue.Value{}, fault.BadParameters("streamcache.LinearScale", "input %s is not F32", input.Kind())
	}
	raw, _ := input.Float()
	output, err := scale.scale(raw)
	if err != nil {
		return iovalue.Value{}, err
	}
	scale.latest = output
	return output, nil
}

// RollingAverage outputs the mean of the last N inputs. The window is
// seeded with the initial value, so early outputs are biased toward it.
type RollingAverage struct {
	kind   iovalue.Kind
	window []float32
	next   int
	latest iovalue.Value
}

// NewRollingAverage returns a rolling mean over windowLength values of
// the given float kind. The output kind equals the input kind.
func NewRollingAverage(kind iovalue.Kind, windowLength int, initial float32) (*RollingAverage, error) {
	const op = "streamcache.NewRollingAverage"
	if !kind.IsFloat() {
		return nil, fault.BadParameters(op, "%s is not a float kind", kind)
	}
	if windowLength <= 0 {
		return nil, fault.BadParameters(op, "window length must be positive, got %d", windowLength)
	}
	latest, err := iovalue.Float(kind, initial)
	if err != nil {
		return nil, fmt.Errorf("initial value: %w", err)
	}
	average := &RollingAverage{kind: kind, window: make([]float32, windowLength), latest: latest}
	for index := range average.window {
		average.window[index] = initial
	}
	return average, nil
}

func (average *RollingAverage) InputType() iovalue.Type      { return iovalue.Type{Kind: average.kind} }
func (average *RollingAverage) OutputType() iovalue.Type     { return iovalue.Type{Kind: average.kind} }
func (average *RollingAverage) LatestOutput() iovalue.Value { return average.latest }

// Process implements Processor.
func (average *RollingAverage) Process(input iovalue.Value, _ time.Time) (iovalue.Value, error) {
	if input.Kind() != average.kind {
		return iovalue.Value{}, fault.BadParameters("streamcache.RollingAverage",
			"input %s does not match %s", input.Kind(), average.kind)
	}
	raw, _ := input.Float()
	average.window[average.next] = raw
	average.next = (average.next + 1) % len(average.window)

	var sum float64
	for _, sample := range average.window {
		sum += float64(sample)
	}
	output, err := iovalue.FloatClamped(average.kind, float32(sum/float64(len(average.window))))
	if err != nil {
		return iovalue.Value{}, err
	}
	average.latest = output
	return output, nil
}
