// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The codec core never schedules work; the only notion of time it has
// is the instant a channel was last updated and the instant a burst
// was last pushed. Those instants are compared, never waited on, so
// the abstraction is reduced to Now.
//
// Production code injects Real(). Tests inject Fake() and move time
// explicitly:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	cache := streamcache.NewChannelCache(0, runner, false, c)
//	c.Advance(10 * time.Millisecond)
package clock
