// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/iocache"
	"github.com/cortexbridge/cortexbridge/lib/neuroncoder"
	"github.com/cortexbridge/cortexbridge/lib/pipelinedef"
)

// Validate checks the configuration for structural problems and returns
// a list of human-readable issues. An empty list means Build can run;
// Build still reports problems that need the constructed encoders, such
// as a pipeline whose output does not match its encoder.
func (c *Config) Validate() []string {
	var issues []string

	if len(c.Sensors) == 0 && len(c.Motors) == 0 {
		issues = append(issues, "at least one sensor or motor area is required")
	}

	seenAreas := make(map[iocache.AreaKey]string)
	devices := make(map[cortical.DeviceIndex]string)
	for index, area := range c.Sensors {
		prefix := fmt.Sprintf("sensors[%d]", index)
		issues = append(issues, validateArea(prefix, area, cortical.DirectionSensor, seenAreas)...)
		for channelIndex, channel := range area.Channels {
			if channel.Device == nil {
				continue
			}
			location := fmt.Sprintf("%s.channels[%d]", prefix, channelIndex)
			if previous, duplicate := devices[*channel.Device]; duplicate {
				issues = append(issues, fmt.Sprintf("%s: device %d is already mapped by %s", location, *channel.Device, previous))
				continue
			}
			devices[*channel.Device] = location
		}
	}
	for index, area := range c.Motors {
		prefix := fmt.Sprintf("motors[%d]", index)
		issues = append(issues, validateArea(prefix, area, cortical.DirectionMotor, seenAreas)...)
		switch area.Encoding {
		case neuroncoder.EncodingSplitSignDivided:
			// Decoding weighs each neuron by (z+1)/depth, so a z=0
			// pulse reads back as 1/depth of its potential.
			if area.Dimensions.Z > 1 {
				issues = append(issues, fmt.Sprintf("%s.dimensions.z: %d is not supported for encoding %q on motors; decoded values would be scaled by 1/%d",
					prefix, area.Dimensions.Z, area.Encoding, area.Dimensions.Z))
			}
		case neuroncoder.EncodingBidirectional:
		default:
			if area.Encoding.Valid() {
				issues = append(issues, fmt.Sprintf("%s: encoding %q cannot decode motor output", prefix, area.Encoding))
			}
		}
		for channelIndex, channel := range area.Channels {
			if channel.Device != nil {
				issues = append(issues, fmt.Sprintf("%s.channels[%d]: device mapping applies to sensors only", prefix, channelIndex))
			}
			if channel.AllowStale {
				issues = append(issues, fmt.Sprintf("%s.channels[%d]: allow_stale applies to sensors only", prefix, channelIndex))
			}
		}
	}

	if _, err := c.Burst.Algorithm(); err != nil {
		issues = append(issues, fmt.Sprintf("burst.compression: %v", err))
	}

	return issues
}

func validateArea(prefix string, area AreaConfig, direction cortical.Direction, seen map[iocache.AreaKey]string) []string {
	var issues []string

	if err := area.Type.Validate(); err != nil {
		issues = append(issues, fmt.Sprintf("%s.type: %v", prefix, err))
	} else if area.Type.Direction() != direction {
		issues = append(issues, fmt.Sprintf("%s.type: %q is not a %s area type", prefix, area.Type, directionName(direction)))
	}

	key := iocache.AreaKey{AreaType: area.Type, Group: area.Group}
	if previous, duplicate := seen[key]; duplicate {
		issues = append(issues, fmt.Sprintf("%s: area %s group %d is already defined by %s", prefix, area.Type, area.Group, previous))
	} else {
		seen[key] = prefix
	}

	issues = append(issues, validateEncoding(prefix, area)...)

	if len(area.Channels) == 0 {
		issues = append(issues, fmt.Sprintf("%s.channels: at least one channel is required", prefix))
	}
	channelCount := area.channelCount()
	seenChannels := make(map[cortical.ChannelIndex]bool)
	for index, channel := range area.Channels {
		channelPrefix := fmt.Sprintf("%s.channels[%d]", prefix, index)
		if uint32(channel.Index) >= channelCount {
			issues = append(issues, fmt.Sprintf("%s: index %d is outside channel_count %d", channelPrefix, channel.Index, channelCount))
		}
		if seenChannels[channel.Index] {
			issues = append(issues, fmt.Sprintf("%s: index %d is defined more than once", channelPrefix, channel.Index))
		}
		seenChannels[channel.Index] = true

		if len(channel.Pipeline) > 0 && channel.PipelineFile != "" {
			issues = append(issues, fmt.Sprintf("%s: pipeline and pipeline_file are mutually exclusive", channelPrefix))
		}
		if len(channel.Pipeline) > 0 {
			for _, issue := range pipelinedef.Validate(&pipelinedef.Definition{Stages: channel.Pipeline}) {
				issues = append(issues, fmt.Sprintf("%s.pipeline.%s", channelPrefix, issue))
			}
		}
	}

	return issues
}

func validateEncoding(prefix string, area AreaConfig) []string {
	var issues []string

	switch area.Encoding {
	case neuroncoder.EncodingLinear, neuroncoder.EncodingSplitSignDivided:
		if err := area.Dimensions.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("%s.dimensions: %v", prefix, err))
		}
	case neuroncoder.EncodingBidirectional:
	case neuroncoder.EncodingImage:
		if area.Properties == nil {
			issues = append(issues, fmt.Sprintf("%s.properties: required for encoding %q", prefix, area.Encoding))
		} else if _, err := area.Properties.ImageSpec.Properties(); err != nil {
			issues = append(issues, fmt.Sprintf("%s.properties: %v", prefix, err))
		}
	case neuroncoder.EncodingSegmentedImage:
		if area.Properties == nil || area.Properties.Center == nil || area.Properties.Peripheral == nil {
			issues = append(issues, fmt.Sprintf("%s.properties: center and peripheral are required for encoding %q", prefix, area.Encoding))
			break
		}
		if _, err := area.Properties.Center.Properties(); err != nil {
			issues = append(issues, fmt.Sprintf("%s.properties.center: %v", prefix, err))
		}
		if _, err := area.Properties.Peripheral.Properties(); err != nil {
			issues = append(issues, fmt.Sprintf("%s.properties.peripheral: %v", prefix, err))
		}
	case "":
		issues = append(issues, fmt.Sprintf("%s.encoding: required", prefix))
	default:
		issues = append(issues, fmt.Sprintf("%s.encoding: unknown encoding %q", prefix, area.Encoding))
	}

	return issues
}

func directionName(direction cortical.Direction) string {
	if direction == cortical.DirectionMotor {
		return "motor"
	}
	return "sensor"
}
