// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package iocache orchestrates stream caches and neuron coders for
// every registered (area type, group, channel) triple.
//
// A [SensorCache] conditions incoming device values through per-channel
// pipelines and encodes the channels that changed since the last burst
// into a shared [neuron.CorticalMap]. A [MotorCache] is the mirror: it
// decodes a neuron map back into per-channel values, runs them through
// the channel pipelines, and notifies subscribers.
//
// Registration is two-phase. An area is registered once with its
// channel count and its shared encoder or decoder; channels are then
// registered individually with their stage chains. The chain's output
// type must equal the encoder's input type (or the decoder's output
// type must equal the chain's input type); mismatches are rejected at
// registration, never at burst time.
//
// Neither cache locks. Callers that share a cache between goroutines
// serialize access themselves; lib/connector does that with a mutex.
package iocache
