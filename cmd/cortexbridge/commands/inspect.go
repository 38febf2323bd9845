// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cortexbridge/cortexbridge/cmd/cortexbridge/cli"
	"github.com/cortexbridge/cortexbridge/lib/bytestructure"
)

// maxInspectDepth bounds container and compression nesting.
const maxInspectDepth = 16

// node describes one structure in an inspected tree.
type node struct {
	Type       string        `json:"type"`
	Version    uint8         `json:"version"`
	Bytes      int           `json:"bytes"`
	Digest     string        `json:"digest"`
	Algorithm  string        `json:"algorithm,omitempty"`
	Areas      []areaSummary `json:"areas,omitempty"`
	Text       string        `json:"text,omitempty"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	Children   []node        `json:"children,omitempty"`
}

type areaSummary struct {
	ID      string `json:"id"`
	Neurons int    `json:"neurons"`
}

type inspectOptions struct {
	cborDiag bool
	jsonText bool
}

func inspectCommand() *cli.Command {
	var (
		options    inspectOptions
		outputJSON bool
	)

	return &cli.Command{
		Name:    "inspect",
		Summary: "Print the structure tree of a byte structure file",
		Description: `Read a byte structure file and print its tree: type, version, size,
and BLAKE3 digest of every structure, the algorithm of compressed
wrappers, and the per-area neuron counts of neuron data.

Compressed structures are expanded and container children are listed
in order.`,
		Usage: "cortexbridge inspect FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Inspect a recorded burst",
				Command:     "cortexbridge inspect burst.bin",
			},
			{
				Description: "Show CBOR documents in diagnostic notation",
				Command:     "cortexbridge inspect --cbor-diag metadata.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.BoolVar(&options.cborDiag, "cbor-diag", false, "print CBOR documents in diagnostic notation")
			flagSet.BoolVar(&options.jsonText, "show-json", false, "print the text of JSON documents")
			flagSet.BoolVar(&outputJSON, "json", false, "output the tree as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("inspect takes exactly one FILE argument, got %d", len(args))
			}
			tree, err := inspectFile(args[0], options)
			if err != nil {
				return err
			}
			if outputJSON {
				return cli.WriteJSON(os.Stdout, tree)
			}
			printTree(os.Stdout, tree, 0)
			return nil
		},
	}
}

// inspectFile reads path and describes the structure it holds.
func inspectFile(path string, options inspectOptions) (node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return node{}, fmt.Errorf("reading %s: %w", path, err)
	}
	structure, err := bytestructure.New(data)
	if err != nil {
		return node{}, fmt.Errorf("%s: %w", path, err)
	}
	tree, err := describe(structure, options, 0)
	if err != nil {
		return node{}, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func describe(structure bytestructure.ByteStructure, options inspectOptions, depth int) (node, error) {
	if depth > maxInspectDepth {
		return node{}, fmt.Errorf("structures nest deeper than %d levels", maxInspectDepth)
	}

	result := node{
		Type:    structure.Type().String(),
		Version: structure.Version(),
		Bytes:   structure.Len(),
		Digest:  structure.Digest().String(),
	}

	view, err := structure.View()
	if err != nil {
		return node{}, err
	}
	switch view := view.(type) {
	case *bytestructure.Compressed:
		result.Algorithm = view.Algorithm().String()
		child, err := describe(view.Inner(), options, depth+1)
		if err != nil {
			return node{}, fmt.Errorf("compressed payload: %w", err)
		}
		result.Children = []node{child}

	case *bytestructure.MultiStruct:
		for index, child := range view.Children() {
			described, err := describe(child, options, depth+1)
			if err != nil {
				return node{}, fmt.Errorf("child %d: %w", index, err)
			}
			result.Children = append(result.Children, described)
		}

	case *bytestructure.NeuronXYZP:
		for id, arrays := range view.Neurons().All() {
			result.Areas = append(result.Areas, areaSummary{ID: id.String(), Neurons: arrays.Len()})
		}

	case *bytestructure.JSON:
		if options.jsonText {
			result.Text = string(view.Text())
		}

	case *bytestructure.CBOR:
		if options.cborDiag {
			diagnostic, err := view.Diagnose()
			if err != nil {
				return node{}, err
			}
			result.Diagnostic = diagnostic
		}
	}
	return result, nil
}

// printTree writes one line per structure, children indented below
// their parent.
func printTree(w io.Writer, tree node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s v%d  %d bytes  blake3:%s", indent, tree.Type, tree.Version, tree.Bytes, tree.Digest[:16])
	if tree.Algorithm != "" {
		fmt.Fprintf(w, "  algorithm=%s", tree.Algorithm)
	}
	if tree.Type == bytestructure.TypeNeuronXYZP.String() {
		fmt.Fprintf(w, "  areas=%d", len(tree.Areas))
	}
	fmt.Fprintln(w)

	for _, area := range tree.Areas {
		fmt.Fprintf(w, "%s  %s  %d neurons\n", indent, area.ID, area.Neurons)
	}
	for _, text := range []string{tree.Text, tree.Diagnostic} {
		if text == "" {
			continue
		}
		for line := range strings.Lines(text) {
			fmt.Fprintf(w, "%s  | %s", indent, line)
		}
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(w)
		}
	}
	for _, child := range tree.Children {
		printTree(w, child, depth+1)
	}
}
