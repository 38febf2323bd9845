// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package iovalue defines the common currency of the stream pipeline:
// a [Value] is one of a closed set of kinds (plain float, float
// normalized to [0,1], float normalized to [-1,1], image frame,
// segmented image frame), and a [Type] describes a kind without
// carrying data.
//
// Types are comparable with ==, which is how pipeline stages and
// encoders are checked for compatibility at construction time. Image
// types carry optional shape properties; the zero properties mean
// "any shape" and only match another zero.
//
// Normalized constructors reject out-of-range or non-finite input.
// The Clamped variants exist for callers that want saturation instead.
package iovalue
