// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/zeebo/blake3"
)

func TestInfoFormats(t *testing.T) {
	// Mutates package variables; not parallel.
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-03-01T12:00:00Z"
	want := Version + " (abc1234-dirty, 2026-03-01T12:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, want no dirty marker", got)
	}

	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() = %q", full)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}

func TestFileDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "binary")
	content := []byte("not really an executable")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := FileDigest(path)
	if err != nil {
		t.Fatalf("FileDigest: %v", err)
	}
	sum := blake3.Sum256(content)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("FileDigest = %s, want %s", got, want)
	}

	if _, err := FileDigest(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("FileDigest(absent) succeeded")
	}
}

func TestSelfDigest(t *testing.T) {
	t.Parallel()

	digest, path, err := SelfDigest()
	if err != nil {
		t.Fatalf("SelfDigest: %v", err)
	}
	if path == "" || len(digest) != 64 {
		t.Errorf("SelfDigest = %q, %q", digest, path)
	}
}
