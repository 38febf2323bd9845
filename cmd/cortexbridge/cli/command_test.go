// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "cortexbridge",
		Subcommands: []*Command{
			{
				Name: "inspect",
				Run: func(args []string) error {
					called = "inspect"
					receivedArgs = args
					return nil
				},
			},
			{
				Name: "pack",
				Run: func(args []string) error {
					called = "pack"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"inspect", "burst.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "inspect" {
		t.Errorf("dispatched to %q, want %q", called, "inspect")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "burst.bin" {
		t.Errorf("args = %v, want [burst.bin]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var configPath string
	var sets []string

	command := &Command{
		Name: "burst",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("burst", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "config file")
			flagSet.StringArrayVar(&sets, "set", nil, "device=value")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--config", "/etc/connector.yaml", "--set", "1=0.5", "--set", "2=7"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if configPath != "/etc/connector.yaml" {
		t.Errorf("configPath = %q", configPath)
	}
	if len(sets) != 2 || sets[1] != "2=7" {
		t.Errorf("sets = %v", sets)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "burst",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("burst", pflag.ContinueOnError)
			flagSet.String("config", "", "config file")
			flagSet.String("output", "-", "output file")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--confgi", "a.yaml"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --config") {
		t.Errorf("error = %q, want suggestion for --config", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}

	err = command.Execute([]string{"--zzzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion for a distant flag", err)
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "cortexbridge",
		Subcommands: []*Command{
			{Name: "inspect"},
			{Name: "pack"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"inspcet"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "inspect"`) {
		t.Errorf("error = %v, want suggestion for inspect", err)
	}

	err = root.Execute([]string{"zzzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion for distant input", err)
	}
}

func TestCommand_Execute_HelpAndMissingSubcommand(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:        "cortexbridge",
		Summary:     "Neuromorphic connector codec",
		Output:      &output,
		Subcommands: []*Command{{Name: "inspect", Summary: "Print a byte structure tree"}},
	}

	for _, helpArg := range []string{"-h", "--help", "help"} {
		if err := root.Execute([]string{helpArg}); err != nil {
			t.Errorf("Execute(%q) error: %v", helpArg, err)
		}
	}
	if !strings.Contains(output.String(), "Print a byte structure tree") {
		t.Errorf("help output = %q", output.String())
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute() error = %v, want subcommand required", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "pack",
		Description: "Pack byte structure files into one container.",
		Usage:       "cortexbridge pack OUT FILE...",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.String("compress", "none", "compression algorithm")
			return flagSet
		},
		Examples: []Example{
			{Description: "Combine neuron data and metadata", Command: "cortexbridge pack out.bin neurons.bin meta.bin"},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Pack byte structure files into one container.",
		"Usage:",
		"cortexbridge pack OUT FILE...",
		"Flags:",
		"--compress",
		"Examples:",
		"# Combine neuron data and metadata",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "cortexbridge"}
	inspect := &Command{Name: "inspect", parent: root}

	if got := inspect.fullName(); got != "cortexbridge inspect" {
		t.Errorf("fullName() = %q, want %q", got, "cortexbridge inspect")
	}
}

func TestCommand_Execute_LeafWithoutAction(t *testing.T) {
	root := &Command{Name: "cortexbridge", Subcommands: []*Command{{Name: "pack"}}}

	err := root.Execute([]string{"pack", "out.bin"})
	if err == nil || !strings.Contains(err.Error(), "cortexbridge pack has no action") {
		t.Errorf("Execute() error = %v, want missing action", err)
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"inspect", "pack", "burst", "version"}
	tests := []struct {
		name string
		want string
	}{
		{"inspcet", "inspect"},
		{"brust", "burst"},
		{"vresion", "version"},
		{"packs", "pack"},
		{"decode", ""},
	}

	for _, test := range tests {
		if got := closest(test.name, candidates); got != test.want {
			t.Errorf("closest(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"inspect", "inspcet", 2},
	}

	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "verbose", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseLogLevel(test.name)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", test.name, err, test.wantErr)
			continue
		}
		if !test.wantErr && got != test.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var text, structured bytes.Buffer
	newLogger(&text, true, slog.LevelInfo).Info("burst written", "bytes", 42)
	newLogger(&structured, false, slog.LevelInfo).Info("burst written", "bytes", 42)
	newLogger(io.Discard, false, slog.LevelWarn).Info("dropped")

	if !strings.Contains(text.String(), "msg=\"burst written\" bytes=42") {
		t.Errorf("text output = %q", text.String())
	}
	if !strings.Contains(structured.String(), `"msg":"burst written","bytes":42`) {
		t.Errorf("JSON output = %q", structured.String())
	}
}
