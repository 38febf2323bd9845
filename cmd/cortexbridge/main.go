// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Command cortexbridge inspects, packs, and produces byte structures
// for a neuromorphic connector.
package main

import (
	"fmt"
	"os"

	"github.com/cortexbridge/cortexbridge/cmd/cortexbridge/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
