// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package iocache

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
	"github.com/cortexbridge/cortexbridge/lib/neuroncoder"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
)

// MotorCache decodes neurons into motor values and conditions them.
type MotorCache struct {
	registry[neuroncoder.Decoder]
}

// NewMotorCache returns an empty motor cache.
func NewMotorCache(options Options) *MotorCache {
	return &MotorCache{registry: newRegistry[neuroncoder.Decoder](options)}
}

// RegisterArea declares an area with channelCount channels sharing
// decoder.
func (cache *MotorCache) RegisterArea(areaType cortical.AreaType, group cortical.GroupIndex, channelCount uint32, decoder neuroncoder.Decoder) error {
	const op = "iocache.MotorCache.RegisterArea"
	if decoder == nil {
		return fault.BadParameters(op, "nil decoder")
	}
	return cache.registerArea(op, AreaKey{AreaType: areaType, Group: group}, channelCount, decoder)
}

// RegisterChannel builds the channel's pipeline from stages. The
// pipeline's input type must equal the area decoder's output type.
func (cache *MotorCache) RegisterChannel(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, stages []streamcache.Processor) error {
	const op = "iocache.MotorCache.RegisterChannel"
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	record, err := cache.lookupArea(op, key)
	if err != nil {
		return err
	}
	runner, err := streamcache.NewRunner(stages...)
	if err != nil {
		return fmt.Errorf("channel %d of area %s group %d: %w", channel, areaType, group, err)
	}
	if runner.InputType() != record.coder.OutputType() {
		return fault.Configuration(op, "decoder output type %s does not match pipeline input type %s for channel %d of area %s group %d",
			record.coder.OutputType(), runner.InputType(), channel, areaType, group)
	}
	return cache.addChannel(op, key, runner, false)
}

// DeregisterChannel removes a channel.
func (cache *MotorCache) DeregisterChannel(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) error {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	return cache.removeChannel("iocache.MotorCache.DeregisterChannel", key)
}

// DecodeFromNeurons decodes every registered channel from neurons and
// feeds the result through the channel pipeline, notifying
// subscribers. Areas missing from neurons decode to neutral values. It
// returns the number of channels decoded.
func (cache *MotorCache) DecodeFromNeurons(neurons *neuron.CorticalMap) (int, error) {
	decoded := 0
	for _, areaKey := range cache.sortedAreas() {
		record := cache.areas[areaKey]
		values, err := neuroncoder.ReadChannels(record.coder, record.channels, neurons)
		if err != nil {
			return decoded, fmt.Errorf("decoding area %s group %d: %w", areaKey.AreaType, areaKey.Group, err)
		}
		for index, channel := range record.channels {
			channelCache := cache.channels[ChannelKey{AreaKey: areaKey, Channel: channel}]
			if err := channelCache.UpdateSensorValue(values[index]); err != nil {
				return decoded, fmt.Errorf("channel %d of area %s group %d: %w", channel, areaKey.AreaType, areaKey.Group, err)
			}
			decoded++
		}
	}
	cache.logger.Debug("motors decoded", "channels", decoded, "neurons", neurons.TotalNeurons())
	return decoded, nil
}

// ReadValue returns the channel pipeline's latest output.
func (cache *MotorCache) ReadValue(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) (iovalue.Value, error) {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	channelCache, err := cache.channel("iocache.MotorCache.ReadValue", key)
	if err != nil {
		return iovalue.Value{}, err
	}
	return channelCache.LatestValue(), nil
}

// Subscribe registers callback for the channel's decoded outputs.
func (cache *MotorCache) Subscribe(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, callback func(iovalue.Value)) (streamcache.Token, error) {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	return cache.subscribe("iocache.MotorCache.Subscribe", key, callback)
}

// Unsubscribe removes a subscription made with Subscribe.
func (cache *MotorCache) Unsubscribe(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, token streamcache.Token) error {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	return cache.unsubscribe("iocache.MotorCache.Unsubscribe", key, token)
}

// Channels lists the registered channels in (type, group, channel)
// order.
func (cache *MotorCache) Channels() []ChannelInfo { return cache.channelInfo() }
