// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// recorder captures Fatalf calls instead of stopping the test.
type recorder struct {
	testing.TB
	failed  bool
	message string
	dir     string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func (r *recorder) TempDir() string { return r.dir }

func TestRequireNear(t *testing.T) {
	t.Parallel()

	passing := &recorder{}
	RequireNear(passing, float32(0.3333), float32(1.0/3), 1e-3)
	if passing.failed {
		t.Errorf("RequireNear failed within tolerance: %s", passing.message)
	}

	failing := &recorder{}
	RequireNear(failing, 0.5, 0.25, 0.1, "channel %d", 7)
	if !failing.failed {
		t.Fatal("RequireNear passed outside tolerance")
	}
	if want := "got 0.5, want 0.25 (±0.1): channel 7"; failing.message != want {
		t.Errorf("message = %q, want %q", failing.message, want)
	}
}

func TestRequireErrorKind(t *testing.T) {
	t.Parallel()

	passing := &recorder{}
	RequireErrorKind(passing, fault.Internal("op", "boom"), fault.KindInternal)
	if passing.failed {
		t.Errorf("RequireErrorKind failed on matching kind: %s", passing.message)
	}

	wrongKind := &recorder{}
	RequireErrorKind(wrongKind, fault.Internal("op", "boom"), fault.KindBadParameters)
	if !wrongKind.failed {
		t.Error("RequireErrorKind passed on mismatched kind")
	}

	nilError := &recorder{}
	RequireErrorKind(nilError, nil, fault.KindBadParameters)
	if !nilError.failed {
		t.Error("RequireErrorKind passed on nil error")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := WriteFile(t, "fixture.yaml", "key: value\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "key: value\n" {
		t.Errorf("content = %q", data)
	}
}
