// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iocache"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuroncoder"
	"github.com/cortexbridge/cortexbridge/lib/pipelinedef"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
)

// Caches holds the caches a configuration describes.
type Caches struct {
	Sensors *iocache.SensorCache
	Motors  *iocache.MotorCache
}

// Build validates the configuration and constructs the sensor and
// motor caches: one encoder or decoder per area, one stage chain per
// channel, and every device mapping.
func (c *Config) Build(options iocache.Options) (*Caches, error) {
	const op = "config.Build"

	if issues := c.Validate(); len(issues) > 0 {
		return nil, fault.Configuration(op, "invalid configuration: %s", strings.Join(issues, "; "))
	}

	caches := &Caches{
		Sensors: iocache.NewSensorCache(options),
		Motors:  iocache.NewMotorCache(options),
	}

	for index, area := range c.Sensors {
		if err := buildSensorArea(caches.Sensors, area); err != nil {
			return nil, fault.Wrap(fault.KindConfiguration, op, err, "sensors[%d]", index)
		}
	}
	for index, area := range c.Motors {
		if err := buildMotorArea(caches.Motors, area); err != nil {
			return nil, fault.Wrap(fault.KindConfiguration, op, err, "motors[%d]", index)
		}
	}

	return caches, nil
}

func buildSensorArea(cache *iocache.SensorCache, area AreaConfig) error {
	encoder, err := neuroncoder.New(area.params())
	if err != nil {
		return err
	}
	if err := cache.RegisterArea(area.Type, area.Group, area.channelCount(), encoder); err != nil {
		return err
	}
	for index, channel := range area.Channels {
		stages, err := channel.stages(encoder.InputType())
		if err != nil {
			return fmt.Errorf("channels[%d]: %w", index, err)
		}
		if err := cache.RegisterChannel(area.Type, area.Group, channel.Index, stages, channel.AllowStale); err != nil {
			return fmt.Errorf("channels[%d]: %w", index, err)
		}
		if channel.Device != nil {
			if err := cache.MapDevice(*channel.Device, area.Type, area.Group, channel.Index); err != nil {
				return fmt.Errorf("channels[%d]: %w", index, err)
			}
		}
	}
	return nil
}

func buildMotorArea(cache *iocache.MotorCache, area AreaConfig) error {
	decoder, err := neuroncoder.NewDecoder(area.params())
	if err != nil {
		return err
	}
	if err := cache.RegisterArea(area.Type, area.Group, area.channelCount(), decoder); err != nil {
		return err
	}
	for index, channel := range area.Channels {
		stages, err := channel.stages(decoder.OutputType())
		if err != nil {
			return fmt.Errorf("channels[%d]: %w", index, err)
		}
		if err := cache.RegisterChannel(area.Type, area.Group, channel.Index, stages); err != nil {
			return fmt.Errorf("channels[%d]: %w", index, err)
		}
	}
	return nil
}

// stages builds the channel's chain. A channel without a pipeline gets
// an identity stage of fallback.
func (channel ChannelConfig) stages(fallback iovalue.Type) ([]streamcache.Processor, error) {
	switch {
	case channel.PipelineFile != "":
		definition, err := pipelinedef.ReadFile(channel.PipelineFile)
		if err != nil {
			return nil, err
		}
		return pipelinedef.Build(definition)
	case len(channel.Pipeline) > 0:
		return pipelinedef.Build(&pipelinedef.Definition{Stages: channel.Pipeline})
	default:
		identity, err := streamcache.NewIdentity(fallback)
		if err != nil {
			return nil, err
		}
		return []streamcache.Processor{identity}, nil
	}
}
