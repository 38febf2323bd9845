// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the cortexbridge command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cortexbridge/cortexbridge/cmd/cortexbridge/cli"
	"github.com/cortexbridge/cortexbridge/lib/version"
)

// Root builds and returns the complete command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "cortexbridge",
		Description: `cortexbridge: neuromorphic connector codec.

Inspect and assemble byte structures (the connector wire format), and
run sensor bursts from a connector configuration.`,
		Subcommands: []*cli.Command{
			inspectCommand(),
			packCommand(),
			burstCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	var showDigest bool

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&showDigest, "digest", false, "also print the BLAKE3 digest of this binary")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("version takes no arguments, got %q", args[0])
			}
			fmt.Fprintf(os.Stdout, "cortexbridge %s\n", version.Full())
			if showDigest {
				digest, path, err := version.SelfDigest()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "  Binary: %s\n  BLAKE3: %s\n", path, digest)
			}
			return nil
		},
	}
}
