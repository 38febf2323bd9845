// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the error taxonomy shared by every CortexBridge
// package.
//
// Each error carries a [Kind] describing who is at fault:
//
//   - [KindBadParameters]: the caller supplied an invalid value (a NaN
//     bound, a zero-length window, a zero channel count). Always raised
//     at construction time, never deferred to first use.
//   - [KindConfiguration]: components were composed incorrectly, such
//     as adjacent pipeline stages with mismatched types or a channel
//     registered against an unknown area.
//   - [KindDeserialization] and [KindSerialization]: a buffer was too
//     short, carried the wrong type or version byte, or its size
//     arithmetic did not add up.
//   - [KindInternal]: an invariant that should be structurally
//     impossible to violate was violated. Signals a defect.
//   - [KindNotImplemented]: an algorithm variant that exists in the
//     API but has no defined semantics yet. Always explicit, never a
//     silent no-op.
//
// Use [Is] or [KindOf] to classify an error after it has been wrapped
// with fmt.Errorf("...: %w", err).
//
// This package has no CortexBridge dependencies.
package fault
