// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for CortexBridge
// packages.
//
// [RequireNear] compares floats within an absolute tolerance; encoder
// round trips go through float32 arithmetic and never compare exactly.
// [RequireErrorKind] asserts the [fault.Kind] of an error, which is how
// tests check that a failure was classified rather than merely raised.
// [WriteFile] drops a fixture into t.TempDir() and returns its path.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
