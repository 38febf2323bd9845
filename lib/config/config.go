// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/cortexbridge/cortexbridge/lib/bytestructure"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/neuroncoder"
	"github.com/cortexbridge/cortexbridge/lib/pipelinedef"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "CORTEXBRIDGE_CONFIG"

// Config is the connector configuration.
type Config struct {
	// Sensors lists input areas encoded into each burst.
	Sensors []AreaConfig `yaml:"sensors"`

	// Motors lists output areas decoded from received neuron data.
	Motors []AreaConfig `yaml:"motors"`

	// Burst configures the outgoing wire format.
	Burst BurstConfig `yaml:"burst"`

	// dir is the directory relative pipeline files resolve against.
	dir string
}

// AreaConfig describes one cortical area and its channels.
type AreaConfig struct {
	// Type is the 4-byte area type code, e.g. "ipro" or "omot".
	Type cortical.AreaType `yaml:"type"`

	// Group distinguishes multiple areas of the same type.
	Group cortical.GroupIndex `yaml:"group"`

	// ChannelCount is the number of channels the area has. Zero means
	// one more than the highest configured channel index.
	ChannelCount uint32 `yaml:"channel_count,omitempty"`

	// Encoding selects the neuron encoder or decoder.
	Encoding neuroncoder.Encoding `yaml:"encoding"`

	// Dimensions is the per-channel extent for the linear and
	// split-sign encodings.
	Dimensions cortical.Dimensions `yaml:"dimensions,omitempty"`

	// Properties is the frame shape for the image encodings.
	Properties *PropertiesConfig `yaml:"properties,omitempty"`

	Channels []ChannelConfig `yaml:"channels"`
}

// PropertiesConfig declares image shapes. The image encoding uses the
// inline fields; the segmented image encoding uses Center and
// Peripheral.
type PropertiesConfig struct {
	pipelinedef.ImageSpec `yaml:",inline"`

	Center     *pipelinedef.ImageSpec `yaml:"center,omitempty"`
	Peripheral *pipelinedef.ImageSpec `yaml:"peripheral,omitempty"`
}

// ChannelConfig describes one channel of an area.
type ChannelConfig struct {
	Index cortical.ChannelIndex `yaml:"index"`

	// Pipeline is an inline stage chain.
	Pipeline []pipelinedef.Stage `yaml:"pipeline,omitempty"`

	// PipelineFile names a JSONC pipeline definition. Mutually
	// exclusive with Pipeline.
	PipelineFile string `yaml:"pipeline_file,omitempty"`

	// AllowStale re-sends the channel's last value in every burst.
	AllowStale bool `yaml:"allow_stale,omitempty"`

	// Device maps a hardware device index onto this sensor channel.
	Device *cortical.DeviceIndex `yaml:"device,omitempty"`
}

// BurstConfig configures how sensor bursts are framed.
type BurstConfig struct {
	// Compression is "none", "lz4", "zstd" or "bg4_lz4". Empty means
	// none.
	Compression string `yaml:"compression,omitempty"`

	// IncludeStatusJSON adds a JSON channel status document next to
	// the neuron data.
	IncludeStatusJSON bool `yaml:"include_status_json,omitempty"`
}

// Algorithm parses Compression.
func (burst BurstConfig) Algorithm() (bytestructure.Algorithm, error) {
	if burst.Compression == "" {
		return bytestructure.AlgorithmNone, nil
	}
	return bytestructure.ParseAlgorithm(burst.Compression)
}

// Load loads configuration from the CORTEXBRIDGE_CONFIG environment
// variable. There are no fallbacks: if the variable is not set, Load
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your connector config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Pipeline file
// paths are expanded and made absolute; no other processing happens
// until Validate or Build.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.dir = filepath.Dir(path)
	cfg.expandPipelineFiles()
	return cfg, nil
}

// Parse decodes YAML configuration. Relative pipeline files resolve
// against the working directory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// expandPipelineFiles expands ${VAR} patterns in pipeline file paths
// and resolves relative paths against the config directory.
func (c *Config) expandPipelineFiles() {
	vars := map[string]string{
		"CONFIG_DIR": c.dir,
		"HOME":       os.Getenv("HOME"),
	}

	for _, areas := range [][]AreaConfig{c.Sensors, c.Motors} {
		for areaIndex := range areas {
			channels := areas[areaIndex].Channels
			for channelIndex := range channels {
				path := channels[channelIndex].PipelineFile
				if path == "" {
					continue
				}
				path = expandVars(path, vars)
				if !filepath.IsAbs(path) && c.dir != "" {
					path = filepath.Join(c.dir, path)
				}
				channels[channelIndex].PipelineFile = path
			}
		}
	}
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// channelCount returns the configured or derived channel count.
func (area AreaConfig) channelCount() uint32 {
	if area.ChannelCount != 0 {
		return area.ChannelCount
	}
	var count uint32
	for _, channel := range area.Channels {
		count = max(count, uint32(channel.Index)+1)
	}
	return count
}

// params converts the area into encoder parameters. Image shapes that
// fail to parse are left zero; Validate reports them.
func (area AreaConfig) params() neuroncoder.Params {
	params := neuroncoder.Params{
		Encoding:   area.Encoding,
		AreaType:   area.Type,
		Group:      area.Group,
		Dimensions: area.Dimensions,
	}
	if area.Properties == nil {
		return params
	}
	switch area.Encoding {
	case neuroncoder.EncodingImage:
		params.Image, _ = area.Properties.ImageSpec.Properties()
	case neuroncoder.EncodingSegmentedImage:
		if area.Properties.Center != nil {
			params.Segmented.Center, _ = area.Properties.Center.Properties()
		}
		if area.Properties.Peripheral != nil {
			params.Segmented.Peripheral, _ = area.Properties.Peripheral.Properties()
		}
	}
	return params
}
