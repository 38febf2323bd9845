// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package iocache

import (
	"fmt"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
	"github.com/cortexbridge/cortexbridge/lib/neuroncoder"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
)

// SensorCache conditions sensor values and encodes them into neurons.
type SensorCache struct {
	registry[neuroncoder.Encoder]
	devices  map[cortical.DeviceIndex]ChannelKey
	lastPush time.Time
}

// NewSensorCache returns an empty sensor cache.
func NewSensorCache(options Options) *SensorCache {
	return &SensorCache{
		registry: newRegistry[neuroncoder.Encoder](options),
		devices:  make(map[cortical.DeviceIndex]ChannelKey),
	}
}

// RegisterArea declares an area with channelCount channels sharing
// encoder.
func (cache *SensorCache) RegisterArea(areaType cortical.AreaType, group cortical.GroupIndex, channelCount uint32, encoder neuroncoder.Encoder) error {
	const op = "iocache.SensorCache.RegisterArea"
	if encoder == nil {
		return fault.BadParameters(op, "nil encoder")
	}
	return cache.registerArea(op, AreaKey{AreaType: areaType, Group: group}, channelCount, encoder)
}

// RegisterChannel builds the channel's pipeline from stages and binds
// it to a registered area. The pipeline's output type must equal the
// area encoder's input type.
func (cache *SensorCache) RegisterChannel(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, stages []streamcache.Processor, allowStale bool) error {
	const op = "iocache.SensorCache.RegisterChannel"
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	record, err := cache.lookupArea(op, key)
	if err != nil {
		return err
	}
	runner, err := streamcache.NewRunner(stages...)
	if err != nil {
		return fmt.Errorf("channel %d of area %s group %d: %w", channel, areaType, group, err)
	}
	if runner.OutputType() != record.coder.InputType() {
		return fault.Configuration(op, "pipeline output type %s does not match encoder input type %s for channel %d of area %s group %d",
			runner.OutputType(), record.coder.InputType(), channel, areaType, group)
	}
	return cache.addChannel(op, key, runner, allowStale)
}

// DeregisterChannel removes a channel and any device mapped to it.
func (cache *SensorCache) DeregisterChannel(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) error {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	if err := cache.removeChannel("iocache.SensorCache.DeregisterChannel", key); err != nil {
		return err
	}
	for device, mapped := range cache.devices {
		if mapped == key {
			delete(cache.devices, device)
		}
	}
	return nil
}

// MapDevice routes values for an external device index to a
// registered channel. Remapping a device replaces its old route.
func (cache *SensorCache) MapDevice(device cortical.DeviceIndex, areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) error {
	const op = "iocache.SensorCache.MapDevice"
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	if _, err := cache.channel(op, key); err != nil {
		return err
	}
	cache.devices[device] = key
	return nil
}

// UpdateValue runs value through the channel's pipeline.
func (cache *SensorCache) UpdateValue(value iovalue.Value, areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) error {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	channelCache, err := cache.channel("iocache.SensorCache.UpdateValue", key)
	if err != nil {
		return err
	}
	return channelCache.UpdateSensorValue(value)
}

// UpdateDeviceValue runs value through the pipeline of the channel
// mapped to device.
func (cache *SensorCache) UpdateDeviceValue(value iovalue.Value, device cortical.DeviceIndex) error {
	key, ok := cache.devices[device]
	if !ok {
		return fault.BadParameters("iocache.SensorCache.UpdateDeviceValue", "device %d is not mapped", device)
	}
	return cache.UpdateValue(value, key.AreaType, key.Group, key.Channel)
}

// EncodeToNeurons writes every channel that should push since the
// previous burst into neurons, one encoder batch per area, then records
// now as the push time. It returns the number of channels written. On
// error the push time is left unchanged so the next burst retries.
func (cache *SensorCache) EncodeToNeurons(now time.Time, neurons *neuron.CorticalMap) (int, error) {
	written := 0
	for _, areaKey := range cache.sortedAreas() {
		record := cache.areas[areaKey]
		var batch []neuroncoder.ChannelValue
		for _, channel := range record.channels {
			channelCache := cache.channels[ChannelKey{AreaKey: areaKey, Channel: channel}]
			if !channelCache.ShouldPushNewValue(cache.lastPush) {
				continue
			}
			batch = append(batch, neuroncoder.ChannelValue{Channel: channel, Value: channelCache.LatestValue()})
		}
		if len(batch) == 0 {
			continue
		}
		if err := neuroncoder.WriteChannels(record.coder, batch, neurons); err != nil {
			return written, fmt.Errorf("encoding area %s group %d: %w", areaKey.AreaType, areaKey.Group, err)
		}
		written += len(batch)
	}
	cache.logger.Debug("sensors encoded",
		"channels", written,
		"neurons", neurons.TotalNeurons(),
		"since", cache.lastPush,
	)
	cache.lastPush = now
	return written, nil
}

// LastPush returns the instant passed to the last successful
// EncodeToNeurons, or the zero time.
func (cache *SensorCache) LastPush() time.Time { return cache.lastPush }

// Subscribe registers callback for the channel's pipeline outputs.
func (cache *SensorCache) Subscribe(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, callback func(iovalue.Value)) (streamcache.Token, error) {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	return cache.subscribe("iocache.SensorCache.Subscribe", key, callback)
}

// Unsubscribe removes a subscription made with Subscribe.
func (cache *SensorCache) Unsubscribe(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex, token streamcache.Token) error {
	key := ChannelKey{AreaKey: AreaKey{AreaType: areaType, Group: group}, Channel: channel}
	return cache.unsubscribe("iocache.SensorCache.Unsubscribe", key, token)
}

// Channels lists the registered channels in (type, group, channel)
// order.
func (cache *SensorCache) Channels() []ChannelInfo { return cache.channelInfo() }
