// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package streamcache

import (
	"time"

	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// Processor is one step of a stream pipeline.
type Processor interface {
	// InputType is the type Process accepts.
	InputType() iovalue.Type

	// OutputType is the type Process produces.
	OutputType() iovalue.Type

	// LatestOutput returns the most recent output, or the stage's
	// initial value before the first Process call.
	LatestOutput() iovalue.Value

	// Process consumes input observed at the given instant and returns
	// the new latest output. Image outputs alias the stage's buffers
	// and stay valid until the next Process call.
	Process(input iovalue.Value, at time.Time) (iovalue.Value, error)
}
