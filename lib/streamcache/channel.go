// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package streamcache

import (
	"time"

	"github.com/cortexbridge/cortexbridge/lib/clock"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// Token identifies one subscription on a ChannelCache.
type Token uint64

type subscriber struct {
	token    Token
	callback func(iovalue.Value)
}

// ChannelCache is the stream cache for one channel of an area.
type ChannelCache struct {
	channel     cortical.ChannelIndex
	runner      *Runner
	allowStale  bool
	clock       clock.Clock
	lastUpdated time.Time

	subscribers []subscriber
	nextToken   Token
}

// NewChannelCache binds runner to channel. A nil clock uses the real
// clock. The channel starts as never updated.
func NewChannelCache(channel cortical.ChannelIndex, runner *Runner, allowStale bool, source clock.Clock) *ChannelCache {
	if source == nil {
		source = clock.Real()
	}
	return &ChannelCache{channel: channel, runner: runner, allowStale: allowStale, clock: source}
}

// Channel returns the channel index.
func (cache *ChannelCache) Channel() cortical.ChannelIndex { return cache.channel }

// AllowStale reports whether the channel is pushed even when unchanged.
func (cache *ChannelCache) AllowStale() bool { return cache.allowStale }

// InputType returns the pipeline's input type.
func (cache *ChannelCache) InputType() iovalue.Type { return cache.runner.InputType() }

// OutputType returns the pipeline's output type.
func (cache *ChannelCache) OutputType() iovalue.Type { return cache.runner.OutputType() }

// LatestValue returns the pipeline's latest output.
func (cache *ChannelCache) LatestValue() iovalue.Value { return cache.runner.LatestOutput() }

// LastUpdated returns the instant of the last successful update, or the
// zero time if there has been none.
func (cache *ChannelCache) LastUpdated() time.Time { return cache.lastUpdated }

// UpdateSensorValue runs value through the pipeline, stamps the update
// time, and notifies subscribers with the pipeline output. On error the
// timestamp is left unchanged and nobody is notified.
func (cache *ChannelCache) UpdateSensorValue(value iovalue.Value) error {
	now := cache.clock.Now()
	output, err := cache.runner.Update(value, now)
	if err != nil {
		return err
	}
	cache.lastUpdated = now
	for _, entry := range cache.subscribers {
		entry.callback(output)
	}
	return nil
}

// ShouldPushNewValue reports whether the channel has something to send
// given the instant of the previous push: always when stale values are
// allowed, otherwise only if updated strictly after lastPush.
func (cache *ChannelCache) ShouldPushNewValue(lastPush time.Time) bool {
	if cache.allowStale {
		return true
	}
	return cache.lastUpdated.After(lastPush)
}

// Subscribe registers callback to run after every successful update.
// Callbacks run synchronously, in subscription order, on the updating
// goroutine.
func (cache *ChannelCache) Subscribe(callback func(iovalue.Value)) Token {
	cache.nextToken++
	cache.subscribers = append(cache.subscribers, subscriber{token: cache.nextToken, callback: callback})
	return cache.nextToken
}

// Unsubscribe removes the subscription identified by token. Returns
// false if the token is unknown or already removed.
func (cache *ChannelCache) Unsubscribe(token Token) bool {
	for index, entry := range cache.subscribers {
		if entry.token == token {
			cache.subscribers = append(cache.subscribers[:index], cache.subscribers[index+1:]...)
			return true
		}
	}
	return false
}
