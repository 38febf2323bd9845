// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package iocache

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/clock"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
)

// Options configures a SensorCache or MotorCache.
type Options struct {
	// Logger receives registration and burst events. Nil discards.
	Logger *slog.Logger

	// Clock stamps channel updates. Nil uses the real clock.
	Clock clock.Clock
}

func (options Options) withDefaults() Options {
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	return options
}

// AreaKey identifies a registered area.
type AreaKey struct {
	AreaType cortical.AreaType
	Group    cortical.GroupIndex
}

func (key AreaKey) compare(other AreaKey) int {
	if order := cmp.Compare(key.AreaType, other.AreaType); order != 0 {
		return order
	}
	return cmp.Compare(key.Group, other.Group)
}

// ChannelKey identifies a registered channel.
type ChannelKey struct {
	AreaKey
	Channel cortical.ChannelIndex
}

// ChannelInfo summarizes one registered channel.
type ChannelInfo struct {
	AreaType    cortical.AreaType     `json:"area_type"`
	Group       cortical.GroupIndex   `json:"group"`
	Channel     cortical.ChannelIndex `json:"channel"`
	InputType   string                `json:"input_type"`
	OutputType  string                `json:"output_type"`
	AllowStale  bool                  `json:"allow_stale"`
	LastUpdated time.Time             `json:"last_updated,omitzero"`
}

// area is the per-(type, group) record: the declared channel count,
// the shared coder, and the registered channel indices in order.
type area[C any] struct {
	channelCount uint32
	coder        C
	channels     []cortical.ChannelIndex
}

// registry is the bookkeeping shared by the sensor and motor caches.
type registry[C any] struct {
	logger   *slog.Logger
	clock    clock.Clock
	areas    map[AreaKey]*area[C]
	channels map[ChannelKey]*streamcache.ChannelCache
}

func newRegistry[C any](options Options) registry[C] {
	options = options.withDefaults()
	return registry[C]{
		logger:   options.Logger,
		clock:    options.Clock,
		areas:    make(map[AreaKey]*area[C]),
		channels: make(map[ChannelKey]*streamcache.ChannelCache),
	}
}

func (registry *registry[C]) registerArea(op string, key AreaKey, channelCount uint32, coder C) error {
	if err := key.AreaType.Validate(); err != nil {
		return err
	}
	if channelCount == 0 {
		return fault.BadParameters(op, "area %s group %d needs at least one channel", key.AreaType, key.Group)
	}
	if _, exists := registry.areas[key]; exists {
		return fault.BadParameters(op, "area %s group %d is already registered", key.AreaType, key.Group)
	}
	registry.areas[key] = &area[C]{channelCount: channelCount, coder: coder}
	registry.logger.Debug("area registered",
		"area_type", key.AreaType,
		"group", key.Group,
		"channels", channelCount,
	)
	return nil
}

// lookupArea returns the area for a channel key after checking that the
// channel lies within the area's declared count.
func (registry *registry[C]) lookupArea(op string, key ChannelKey) (*area[C], error) {
	record, ok := registry.areas[key.AreaKey]
	if !ok {
		return nil, fault.BadParameters(op, "area %s group %d is not registered", key.AreaType, key.Group)
	}
	if uint32(key.Channel) >= record.channelCount {
		return nil, fault.BadParameters(op, "channel %d is out of range for area %s group %d with %d channels",
			key.Channel, key.AreaType, key.Group, record.channelCount)
	}
	return record, nil
}

func (registry *registry[C]) addChannel(op string, key ChannelKey, runner *streamcache.Runner, allowStale bool) error {
	record, err := registry.lookupArea(op, key)
	if err != nil {
		return err
	}
	if _, exists := registry.channels[key]; exists {
		return fault.BadParameters(op, "channel %d of area %s group %d is already registered",
			key.Channel, key.AreaType, key.Group)
	}
	registry.channels[key] = streamcache.NewChannelCache(key.Channel, runner, allowStale, registry.clock)
	index, _ := slices.BinarySearch(record.channels, key.Channel)
	record.channels = slices.Insert(record.channels, index, key.Channel)
	registry.logger.Debug("channel registered",
		"area_type", key.AreaType,
		"group", key.Group,
		"channel", key.Channel,
		"input_type", runner.InputType().String(),
		"output_type", runner.OutputType().String(),
		"allow_stale", allowStale,
	)
	return nil
}

func (registry *registry[C]) removeChannel(op string, key ChannelKey) error {
	record, err := registry.lookupArea(op, key)
	if err != nil {
		return err
	}
	if _, exists := registry.channels[key]; !exists {
		return fault.BadParameters(op, "channel %d of area %s group %d is not registered",
			key.Channel, key.AreaType, key.Group)
	}
	delete(registry.channels, key)
	if index, found := slices.BinarySearch(record.channels, key.Channel); found {
		record.channels = slices.Delete(record.channels, index, index+1)
	}
	registry.logger.Debug("channel deregistered",
		"area_type", key.AreaType,
		"group", key.Group,
		"channel", key.Channel,
	)
	return nil
}

func (registry *registry[C]) channel(op string, key ChannelKey) (*streamcache.ChannelCache, error) {
	if _, err := registry.lookupArea(op, key); err != nil {
		return nil, err
	}
	cache, ok := registry.channels[key]
	if !ok {
		return nil, fault.BadParameters(op, "channel %d of area %s group %d is not registered",
			key.Channel, key.AreaType, key.Group)
	}
	return cache, nil
}

// sortedAreas returns the registered area keys in (type, group) order.
func (registry *registry[C]) sortedAreas() []AreaKey {
	keys := make([]AreaKey, 0, len(registry.areas))
	for key := range registry.areas {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, AreaKey.compare)
	return keys
}

func (registry *registry[C]) channelInfo() []ChannelInfo {
	var infos []ChannelInfo
	for _, areaKey := range registry.sortedAreas() {
		for _, channel := range registry.areas[areaKey].channels {
			cache := registry.channels[ChannelKey{AreaKey: areaKey, Channel: channel}]
			infos = append(infos, ChannelInfo{
				AreaType:    areaKey.AreaType,
				Group:       areaKey.Group,
				Channel:     channel,
				InputType:   cache.InputType().String(),
				OutputType:  cache.OutputType().String(),
				AllowStale:  cache.AllowStale(),
				LastUpdated: cache.LastUpdated(),
			})
		}
	}
	return infos
}

func (registry *registry[C]) subscribe(op string, key ChannelKey, callback func(iovalue.Value)) (streamcache.Token, error) {
	if callback == nil {
		return 0, fault.BadParameters(op, "nil callback")
	}
	cache, err := registry.channel(op, key)
	if err != nil {
		return 0, err
	}
	return cache.Subscribe(callback), nil
}

func (registry *registry[C]) unsubscribe(op string, key ChannelKey, token streamcache.Token) error {
	cache, err := registry.channel(op, key)
	if err != nil {
		return err
	}
	if !cache.Unsubscribe(token) {
		return fault.BadParameters(op, "unknown subscription token %d", token)
	}
	return nil
}
