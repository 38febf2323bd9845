// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the cortexbridge command tree. A node either
// groups Subcommands or runs a leaf action; the root groups, and every
// tool (inspect, pack, burst, version) is a leaf.
type Command struct {
	Name        string
	Summary     string // one line, listed in the parent's help
	Description string // shown at the top of the command's own help
	Usage       string // synthesized from Name when empty
	Examples    []Example

	// Flags builds a fresh flag set each time it is called. Nil means
	// the command takes no flags.
	Flags func() *pflag.FlagSet

	Subcommands []*Command
	Run         func(args []string) error

	// Output receives help text. Nil inherits from the parent, and
	// finally falls back to os.Stderr.
	Output io.Writer

	parent *Command
}

// Example is one entry in the Examples section of help.
type Example struct {
	Description string
	Command     string
}

// Execute dispatches args to a subcommand or parses flags and runs the
// leaf action.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}
	if len(c.Subcommands) > 0 {
		return c.dispatch(args)
	}
	if c.Run == nil {
		return fmt.Errorf("%s has no action", c.fullName())
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		flagSet.SetOutput(io.Discard)
		if err := flagSet.Parse(args); err != nil {
			return c.usageError(err.Error(), suggestFlag(args, c.Flags()))
		}
		args = flagSet.Args()
	}
	return c.Run(args)
}

func (c *Command) dispatch(args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		c.PrintHelp(c.output())
		return errors.New("subcommand required")
	}
	for _, sub := range c.Subcommands {
		if sub.Name == args[0] {
			sub.parent = c
			return sub.Execute(args[1:])
		}
	}

	names := make([]string, len(c.Subcommands))
	for i, sub := range c.Subcommands {
		names[i] = sub.Name
	}
	suggestion := ""
	if match := closest(args[0], names); match != "" {
		suggestion = fmt.Sprintf("%q", match)
	}
	return c.usageError(fmt.Sprintf("unknown command %q", args[0]), suggestion)
}

// usageError formats a command-line mistake with an optional
// suggestion and a pointer to --help.
func (c *Command) usageError(message, suggestion string) error {
	if suggestion != "" {
		message += fmt.Sprintf(" (did you mean %s?)", suggestion)
	}
	return fmt.Errorf("%s\n\nRun '%s --help' for usage.", message, c.fullName())
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = c.fullName() + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = c.fullName() + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if flags := c.Flags().FlagUsages(); flags != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", flags)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n  %s\n\n", example.Description, example.Command)
			} else {
				fmt.Fprintf(w, "  %s\n", example.Command)
			}
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for details on a command.\n", c.fullName())
	}
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
