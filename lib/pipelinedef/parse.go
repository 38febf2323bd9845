// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipelinedef parses, validates, and builds stream cache stage
// chains from declarative definitions.
//
// A definition is an ordered list of stages. It is authored either
// inline in the connector's YAML configuration or as a standalone JSONC
// file (JSON extended with comments and trailing commas) referenced by
// pipeline_file, so one chain can be shared by many channels:
//
//	// proximity.jsonc
//	{
//	  "description": "raw centimetres to a smoothed 0..1 signal",
//	  "stages": [
//	    {"type": "linear_scale_0_1", "lower": 0, "upper": 150},
//	    {"type": "rolling_average", "kind": "F32Normalized0To1", "window": 4},
//	  ],
//	}
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Definition
//  2. Validate: structural checks, returned as a list of issues
//  3. Build: Definition → []streamcache.Processor, ready for
//     streamcache.NewRunner or an iocache channel registration
//
// Image stages may omit their input shape after the first one: Build
// threads each stage's output shape into the next stage.
package pipelinedef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Parse strips JSONC comments and trailing commas from data, then
// decodes the result into a Definition. Unknown fields are rejected so
// that a misspelled parameter is not silently ignored.
func Parse(data []byte) (*Definition, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()

	var definition Definition
	if err := decoder.Decode(&definition); err != nil {
		return nil, fmt.Errorf("parsing pipeline: %w", err)
	}
	return &definition, nil
}

// ReadFile reads and parses a JSONC pipeline file.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	definition, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return definition, nil
}
