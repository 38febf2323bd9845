// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the cortexbridge binary.
//
// A [Command] is a node in a tree: it either dispatches to
// Subcommands by the first positional argument or parses its pflag
// FlagSet and calls Run. Unknown commands and flags are answered with
// an edit-distance suggestion. Help output (-h, --help, help) is
// synthesized from Summary, Description, Usage, the flag set, and
// Examples.
//
// [NewCommandLogger] builds the slog logger commands use: text on a
// terminal, JSON when stderr is redirected, at the level named by
// --log-level.
package cli
