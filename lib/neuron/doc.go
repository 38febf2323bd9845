// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package neuron holds spatial neuron activity: the [XYZP] sample, the
// [Arrays] collection of many samples, and the [CorticalMap] grouping
// collections by cortical area.
//
// Arrays stores samples as four parallel slices (struct of arrays)
// because that is the layout of the wire payload: serializing an area
// is four contiguous little-endian copies rather than a per-neuron
// interleave. The four slices always have identical length; every
// mutating method preserves that, and bulk constructors verify it.
//
// Collections are reused across bursts. [Arrays.Reset] truncates
// without releasing capacity, and [CorticalMap.WithClearedArrays] lends
// a cleared collection to a callback for the duration of one call. No
// method hands out a long-lived mutable handle into a map entry.
package neuron
