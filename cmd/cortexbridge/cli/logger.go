// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// LogLevelFlag registers --log-level on flagSet, bound to level.
func LogLevelFlag(flagSet *pflag.FlagSet, level *string) {
	flagSet.StringVar(level, "log-level", "info", "log level: debug, info, warn, error")
}

// ParseLogLevel converts a --log-level value into a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: want debug, info, warn or error", name)
	}
	return level, nil
}

// NewCommandLogger creates a structured logger on stderr at the given
// level. When stderr is a terminal it uses slog.TextHandler for
// human-readable output; when piped or redirected it uses
// slog.JSONHandler so logs stay machine-parseable.
func NewCommandLogger(levelName string) (*slog.Logger, error) {
	level, err := ParseLogLevel(levelName)
	if err != nil {
		return nil, err
	}
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level), nil
}

func newLogger(w io.Writer, text bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
