// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package streamcache conditions raw I/O values before they are
// encoded into neurons (or after they are decoded from them).
//
// A [Processor] is one typed transform step that remembers its latest
// output. A [Runner] composes an ordered list of processors into a
// pipeline and verifies, once at construction, that every adjacent
// pair agrees on type: stage[i].OutputType() == stage[i+1].InputType().
// Steady-state updates never re-check composition.
//
// A [ChannelCache] binds one runner to a channel index, stamps the
// time of each successful update from an injected [clock.Clock], and
// answers whether the channel has anything new to push since a given
// instant. Channels that allow stale values always report true.
//
// Processors:
//
//   - [Identity]: passes values through; a chain needs at least one
//     stage even when no transform is wanted.
//   - [LinearScale]: clamps a float to [lower, upper] and maps it onto
//     [0, 1] or [-1, 1].
//   - [RollingAverage]: mean over a fixed circular window.
//   - [ImageQuickDiff]: keeps pixels that changed by more than a
//     threshold since the previous frame.
//   - [ImageTransform] and [ImageSegmentor]: delegate pixel work to an
//     [imageframe.Transformer] or [imageframe.Segmenter].
//
// Nothing in this package locks. A cache is owned by one caller at a
// time; an owner that shares it across goroutines supplies the lock.
package streamcache
