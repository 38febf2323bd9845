// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// T is the subset of testing.TB the helpers need.
type T interface {
	Helper()
	Fatalf(format string, args ...any)
	TempDir() string
}

// RequireNear fails the test unless |got - want| <= tolerance.
//
//	testutil.RequireNear(t, decoded, 0.25, 1e-6, "channel %d", channel)
func RequireNear[F ~float32 | ~float64](t T, got, want, tolerance F, msgAndArgs ...any) {
	t.Helper()
	if math.IsNaN(float64(got)) || math.Abs(float64(got)-float64(want)) > float64(tolerance) {
		t.Fatalf("got %v, want %v (±%v): %s", got, want, tolerance, formatMessage(msgAndArgs))
	}
}

// RequireErrorKind fails the test unless err is a fault.Error of kind.
//
//	testutil.RequireErrorKind(t, err, fault.KindConfiguration, "empty chain")
func RequireErrorKind(t T, err error, kind fault.Kind, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil: %s", kind, formatMessage(msgAndArgs))
	}
	if got := fault.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v): %s", kind, got, err, formatMessage(msgAndArgs))
	}
}

// WriteFile writes content to name inside a fresh temporary directory
// and returns the full path.
func WriteFile(t T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
