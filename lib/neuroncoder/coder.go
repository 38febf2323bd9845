// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package neuroncoder

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

// Encoder writes values of one type into neurons of a cortical area.
type Encoder interface {
	// InputType is the exact value type the encoder accepts.
	InputType() iovalue.Type

	// WriteSingleChannel creates or clears the target collection and
	// writes value at channel.
	WriteSingleChannel(value iovalue.Value, channel cortical.ChannelIndex, neurons *neuron.CorticalMap) error
}

// ChannelValue pairs a value with the channel it belongs to.
type ChannelValue struct {
	Channel cortical.ChannelIndex
	Value   iovalue.Value
}

// BatchEncoder is implemented by encoders that write several channels
// of the same area in one pass.
type BatchEncoder interface {
	Encoder

	// WriteMultiChannel clears the target collection once and writes
	// every value at its channel, in order.
	WriteMultiChannel(values []ChannelValue, neurons *neuron.CorticalMap) error
}

// WriteChannels writes values with encoder. It uses WriteMultiChannel
// when the encoder provides it and otherwise calls WriteSingleChannel
// per value, which is only correct for encoders whose channels do not
// share a collection.
func WriteChannels(encoder Encoder, values []ChannelValue, neurons *neuron.CorticalMap) error {
	if len(values) == 0 {
		return nil
	}
	if batch, ok := encoder.(BatchEncoder); ok {
		return batch.WriteMultiChannel(values, neurons)
	}
	for _, entry := range values {
		if err := encoder.WriteSingleChannel(entry.Value, entry.Channel, neurons); err != nil {
			return fmt.Errorf("channel %d: %w", entry.Channel, err)
		}
	}
	return nil
}

// Decoder reads values of one type out of neurons of a cortical area.
type Decoder interface {
	// OutputType is the value type the decoder produces.
	OutputType() iovalue.Type

	// ReadSingleChannel decodes channel. A missing area yields the
	// neutral value of OutputType.
	ReadSingleChannel(channel cortical.ChannelIndex, neurons *neuron.CorticalMap) (iovalue.Value, error)
}

// ReadChannels decodes every channel in order.
func ReadChannels(decoder Decoder, channels []cortical.ChannelIndex, neurons *neuron.CorticalMap) ([]iovalue.Value, error) {
	values := make([]iovalue.Value, 0, len(channels))
	for _, channel := range channels {
		value, err := decoder.ReadSingleChannel(channel, neurons)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", channel, err)
		}
		values = append(values, value)
	}
	return values, nil
}
