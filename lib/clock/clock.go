// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the current time for testability.
//
// Every production function that would call time.Now should accept a
// Clock (or be a method on a struct with a Clock field) instead.
type Clock interface {
	// Now returns the current time. Real clocks carry a monotonic
	// reading, so comparisons between two Now results are immune to
	// wall-clock adjustments.
	Now() time.Time
}
