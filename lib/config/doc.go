// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the connector's YAML configuration and builds
// the sensor and motor caches it describes.
//
// Configuration is loaded from a single file specified by either the
// CORTEXBRIDGE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no discovery and no merging of
// multiple files.
//
// A configuration lists sensor areas, motor areas, and burst options:
//
//	sensors:
//	  - type: ipro
//	    group: 0
//	    encoding: split_sign_divided
//	    dimensions: {x: 2, y: 1, z: 1}
//	    channels:
//	      - index: 0
//	        device: 3
//	        pipeline_file: ${CORTEXBRIDGE_PIPELINES:-pipelines}/proximity.jsonc
//	motors:
//	  - type: omot
//	    encoding: bidirectional
//	    channels:
//	      - index: 0
//	burst:
//	  compression: lz4
//	  include_status_json: true
//
// Channel pipelines are either an inline stage list (the same stage
// schema as [pipelinedef]) or a pipeline_file. pipeline_file supports
// ${VAR} and ${VAR:-default} expansion and is resolved relative to the
// configuration file's directory. A channel with neither gets an
// identity stage of its encoder's type.
//
// Key exports:
//
//   - [Config] -- sensors, motors, and burst options
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- structural checks as a list of issues
//   - [Config.Build] -- constructs the iocache caches
package config
