// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuroncoder

import (
	"math"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

func checkValue(op string, value iovalue.Value, want iovalue.Type) error {
	if !value.MatchesType(want) {
		return fault.BadParameters(op, "value of type %s does not match encoder input type %s", value.Type(), want)
	}
	return nil
}

func checkArea(op string, id cortical.ID) error {
	if id.IsZero() {
		return fault.BadParameters(op, "zero cortical identifier")
	}
	return nil
}

// Linear encodes a value in [0, 1] as a single neuron whose depth is
// proportional to the value. Each channel owns a column of
// Dimensions.X neurons starting at x = Dimensions.X * channel.
type Linear struct {
	area       cortical.ID
	dimensions cortical.Dimensions
}

// NewLinear returns a linear encoder writing into area.
func NewLinear(area cortical.ID, dimensions cortical.Dimensions) (*Linear, error) {
	const op = "neuroncoder.NewLinear"
	if err := checkArea(op, area); err != nil {
		return nil, err
	}
	if err := dimensions.Validate(); err != nil {
		return nil, err
	}
	return &Linear{area: area, dimensions: dimensions}, nil
}

// InputType implements Encoder.
func (linear *Linear) InputType() iovalue.Type { return iovalue.F32Normalized0To1Type }

// OutputType implements Decoder.
func (linear *Linear) OutputType() iovalue.Type { return iovalue.F32Normalized0To1Type }

// WriteSingleChannel implements Encoder.
func (linear *Linear) WriteSingleChannel(value iovalue.Value, channel cortical.ChannelIndex, neurons *neuron.CorticalMap) error {
	return linear.WriteMultiChannel([]ChannelValue{{Channel: channel, Value: value}}, neurons)
}

// WriteMultiChannel implements BatchEncoder.
func (linear *Linear) WriteMultiChannel(values []ChannelValue, neurons *neuron.CorticalMap) error {
	const op = "neuroncoder.Linear"
	for _, entry := range values {
		if err := checkValue(op, entry.Value, linear.InputType()); err != nil {
			return err
		}
		if uint64(entry.Channel)*uint64(linear.dimensions.X) > math.MaxUint32 {
			return fault.BadParameters(op, "channel %d overflows the x axis", entry.Channel)
		}
	}
	depth := linear.dimensions.Z
	return neurons.WithClearedArrays(linear.area, len(values), func(arrays *neuron.Arrays) error {
		for _, entry := range values {
			scalar, _ := entry.Value.Float()
			z := uint32(scalar * float32(depth))
			if z >= depth {
				z = depth - 1
			}
			arrays.Append(linear.dimensions.X*uint32(entry.Channel), 0, z, 1.0)
		}
		return nil
	})
}

// ReadSingleChannel implements Decoder. Linear decoding has no defined
// inverse yet and always fails with KindNotImplemented.
func (linear *Linear) ReadSingleChannel(channel cortical.ChannelIndex, _ *neuron.CorticalMap) (iovalue.Value, error) {
	return iovalue.Value{}, fault.NotImplemented("neuroncoder.Linear.ReadSingleChannel",
		"linear decoding of %s channel %d", linear.area, channel)
}

// SignedFloat encodes a value in [-1, 1] as one neuron per channel: x
// is 2*channel for negative values and 2*channel+1 otherwise, and the
// potential is the magnitude. The split-sign-divided form spreads
// decoded strength across a configurable depth; the bidirectional form
// has depth 1.
type SignedFloat struct {
	area  cortical.ID
	depth uint32
}

// NewSplitSignDivided returns a split-sign encoder/decoder for area.
// depth is the z extent used when weighting decoded neurons.
func NewSplitSignDivided(area cortical.ID, depth uint32) (*SignedFloat, error) {
	const op = "neuroncoder.NewSplitSignDivided"
	if err := checkArea(op, area); err != nil {
		return nil, err
	}
	if depth == 0 {
		return nil, fault.BadParameters(op, "depth must be at least 1")
	}
	return &SignedFloat{area: area, depth: depth}, nil
}

// NewBidirectional returns a single-pulse sign+magnitude encoder/decoder
// for area.
func NewBidirectional(area cortical.ID) (*SignedFloat, error) {
	if err := checkArea("neuroncoder.NewBidirectional", area); err != nil {
		return nil, err
	}
	return &SignedFloat{area: area, depth: 1}, nil
}

// Depth returns the z extent used for decoding.
func (signed *SignedFloat) Depth() uint32 { return signed.depth }

// InputType implements Encoder.
func (signed *SignedFloat) InputType() iovalue.Type { return iovalue.F32NormalizedM1To1Type }

// OutputType implements Decoder.
func (signed *SignedFloat) OutputType() iovalue.Type { return iovalue.F32NormalizedM1To1Type }

func signedIndices(channel cortical.ChannelIndex) (negative, positive uint32, ok bool) {
	if uint64(channel)*2+1 > math.MaxUint32 {
		return 0, 0, false
	}
	negative = uint32(channel) * 2
	return negative, negative + 1, true
}

// WriteSingleChannel implements Encoder.
func (signed *SignedFloat) WriteSingleChannel(value iovalue.Value, channel cortical.ChannelIndex, neurons *neuron.CorticalMap) error {
	return signed.WriteMultiChannel([]ChannelValue{{Channel: channel, Value: value}}, neurons)
}

// WriteMultiChannel implements BatchEncoder.
func (signed *SignedFloat) WriteMultiChannel(values []ChannelValue, neurons *neuron.CorticalMap) error {
	const op = "neuroncoder.SignedFloat"
	for _, entry := range values {
		if err := checkValue(op, entry.Value, signed.InputType()); err != nil {
			return err
		}
		if _, _, ok := signedIndices(entry.Channel); !ok {
			return fault.BadParameters(op, "channel %d overflows the x axis", entry.Channel)
		}
	}
	return neurons.WithClearedArrays(signed.area, len(values), func(arrays *neuron.Arrays) error {
		for _, entry := range values {
			scalar, _ := entry.Value.Float()
			negative, positive, _ := signedIndices(entry.Channel)
			x := negative
			if scalar >= 0 {
				x = positive
			}
			arrays.Append(x, 0, 0, float32(math.Abs(float64(scalar))))
		}
		return nil
	})
}

// ReadSingleChannel implements Decoder. Neurons at the positive index
// add potential*(z+1)/depth, neurons at the negative index subtract it;
// the sum is divided by the number of matching neurons and clamped to
// [-1, 1]. No matching neurons decode to 0.
func (signed *SignedFloat) ReadSingleChannel(channel cortical.ChannelIndex, neurons *neuron.CorticalMap) (iovalue.Value, error) {
	negative, positive, ok := signedIndices(channel)
	if !ok {
		return iovalue.Value{}, fault.BadParameters("neuroncoder.SignedFloat.ReadSingleChannel",
			"channel %d overflows the x axis", channel)
	}
	arrays, found := neurons.Get(signed.area)
	if !found || arrays.Len() == 0 {
		return iovalue.NormalizedM1To1(0)
	}
	depth := float32(signed.depth)
	var sum float32
	var matched int
	for _, sample := range arrays.All() {
		weight := sample.Potential * float32(sample.Z+1) / depth
		switch sample.X {
		case positive:
			sum += weight
			matched++
		case negative:
			sum -= weight
			matched++
		}
	}
	if matched == 0 {
		return iovalue.NormalizedM1To1(0)
	}
	return iovalue.NormalizedM1To1Clamped(sum / float32(matched))
}
