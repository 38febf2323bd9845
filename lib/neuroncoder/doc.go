// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package neuroncoder maps conditioned I/O values onto spatial neuron
// patterns in a cortical area and back.
//
// An [Encoder] declares the [iovalue.Type] it accepts and writes one
// channel's value into a [neuron.CorticalMap]. Writing goes through
// [neuron.CorticalMap.WithClearedArrays]: the target collection is
// created on first use and cleared on every later write, so a map can
// be reused burst after burst without reallocating.
//
// Several channels of the same area share one collection. Writing them
// one at a time would clear the previous channel's neurons, so the
// encoders in this package also implement [BatchEncoder] and clear the
// area once per batch. [WriteChannels] picks the batch path when it is
// available and falls back to a single-channel loop otherwise.
//
// A [Decoder] reads a channel back out of a map. An area that is
// absent from the map decodes to the neutral value of the output type:
// absence means no activity yet and is never an error.
//
// Encodings:
//
//   - [Linear]: a normalized value selects one neuron along the z axis
//     of the channel's column.
//   - [SignedFloat] in split-sign-divided or bidirectional form: the
//     sign selects one of two x positions per channel and the magnitude
//     becomes the potential.
//   - [Image] and [SegmentedImage]: frames are written with their own
//     neuron writer after the shape is checked against the declared
//     properties.
//
// [New] builds encoders and decoders by [Encoding] name for
// configuration-driven setups.
package neuroncoder
