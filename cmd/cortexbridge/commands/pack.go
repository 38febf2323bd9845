// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cortexbridge/cortexbridge/cmd/cortexbridge/cli"
	"github.com/cortexbridge/cortexbridge/lib/bytestructure"
)

func packCommand() *cli.Command {
	var compression string

	return &cli.Command{
		Name:    "pack",
		Summary: "Pack byte structure files into one container",
		Description: `Read each FILE as a byte structure and write a MultiStruct container
holding them, in argument order, to OUT. Every input is validated
before anything is written.

With --compress, the container is wrapped in a Compressed structure.`,
		Usage: "cortexbridge pack OUT FILE... [flags]",
		Examples: []cli.Example{
			{
				Description: "Combine neuron data with a metadata document",
				Command:     "cortexbridge pack frame.bin neurons.bin status.bin",
			},
			{
				Description: "Pack and compress with zstd",
				Command:     "cortexbridge pack --compress zstd frame.bin a.bin b.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.StringVar(&compression, "compress", "none", "compression: none, lz4, zstd, bg4_lz4")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("pack needs OUT and at least one FILE, got %d arguments", len(args))
			}
			algorithm, err := bytestructure.ParseAlgorithm(compression)
			if err != nil {
				return err
			}
			structure, err := packFiles(args[1:], algorithm)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], structure.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[0], err)
			}
			fmt.Fprintf(os.Stderr, "packed %d structures into %s (%d bytes)\n", len(args)-1, args[0], structure.Len())
			return nil
		},
	}
}

// packFiles reads every input and returns the container, optionally
// compressed.
func packFiles(paths []string, algorithm bytestructure.Algorithm) (bytestructure.ByteStructure, error) {
	container := bytestructure.NewMultiStruct()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return bytestructure.ByteStructure{}, fmt.Errorf("reading %s: %w", path, err)
		}
		child, err := bytestructure.New(data)
		if err != nil {
			return bytestructure.ByteStructure{}, fmt.Errorf("%s: %w", path, err)
		}
		container.Add(child)
	}

	structure, err := bytestructure.Serialize(container)
	if err != nil {
		return bytestructure.ByteStructure{}, err
	}
	if algorithm == bytestructure.AlgorithmNone {
		return structure, nil
	}
	compressed, err := bytestructure.NewCompressed(structure, algorithm)
	if err != nil {
		return bytestructure.ByteStructure{}, err
	}
	return bytestructure.Serialize(compressed)
}
