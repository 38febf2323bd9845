// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/cortexbridge/cortexbridge/cmd/cortexbridge/cli"
	"github.com/cortexbridge/cortexbridge/lib/config"
	"github.com/cortexbridge/cortexbridge/lib/connector"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/iocache"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

type burstParams struct {
	configPath  string
	sets        []string
	output      string
	compression string
	logLevel    string
}

func burstCommand() *cli.Command {
	var params burstParams

	return &cli.Command{
		Name:    "burst",
		Summary: "Run one sensor burst from a connector configuration",
		Description: `Build the sensor caches described by a connector configuration, feed
each --set value to the channel mapped to its device, run one burst,
and write the resulting byte structure.

The configuration comes from --config or, when that is empty, from the
CORTEXBRIDGE_CONFIG environment variable. Channels that allow stale
values are included even without a --set.`,
		Usage: "cortexbridge burst [--config FILE] [--set DEVICE=VALUE]... [flags]",
		Examples: []cli.Example{
			{
				Description: "Encode two device readings and inspect the result",
				Command:     "cortexbridge burst --config connector.yaml --set 3=42.5 --set 4=0.1 -o burst.bin && cortexbridge inspect burst.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("burst", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "connector configuration file (default $"+config.EnvironmentVariable+")")
			flagSet.StringArrayVar(&params.sets, "set", nil, "DEVICE=VALUE raw F32 reading for a mapped device (repeatable)")
			flagSet.StringVarP(&params.output, "output", "o", "-", "output file, - for stdout")
			flagSet.StringVar(&params.compression, "compress", "", "override burst.compression from the configuration")
			cli.LogLevelFlag(flagSet, &params.logLevel)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("burst takes no positional arguments, got %q", args[0])
			}
			logger, err := cli.NewCommandLogger(params.logLevel)
			if err != nil {
				return err
			}
			data, err := runBurst(params, time.Now(), logger)
			if err != nil {
				return err
			}
			return writeOutput(params.output, data)
		},
	}
}

// runBurst loads the configuration, applies the device readings, and
// returns one burst.
func runBurst(params burstParams, now time.Time, logger *slog.Logger) ([]byte, error) {
	var (
		cfg *config.Config
		err error
	)
	if params.configPath != "" {
		cfg, err = config.LoadFile(params.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if params.compression != "" {
		cfg.Burst.Compression = params.compression
	}
	algorithm, err := cfg.Burst.Algorithm()
	if err != nil {
		return nil, err
	}

	readings, err := parseSets(params.sets)
	if err != nil {
		return nil, err
	}

	caches, err := cfg.Build(iocache.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	bridge := connector.New(caches.Sensors, caches.Motors, connector.Options{
		Logger:            logger,
		Compression:       algorithm,
		IncludeStatusJSON: cfg.Burst.IncludeStatusJSON,
	})

	for _, reading := range readings {
		value, err := iovalue.F32(reading.value)
		if err != nil {
			return nil, fmt.Errorf("--set %d=%v: %w", reading.device, reading.value, err)
		}
		if err := bridge.UpdateDeviceValue(value, reading.device); err != nil {
			return nil, fmt.Errorf("--set %d=%v: %w", reading.device, reading.value, err)
		}
	}

	data, err := bridge.Burst(now)
	if err != nil {
		return nil, err
	}
	logger.Info("burst written",
		"readings", len(readings),
		"bytes", len(data),
		"compression", algorithm.String(),
	)
	return data, nil
}

type deviceReading struct {
	device cortical.DeviceIndex
	value  float32
}

// parseSets parses DEVICE=VALUE pairs in order.
func parseSets(sets []string) ([]deviceReading, error) {
	readings := make([]deviceReading, 0, len(sets))
	for _, set := range sets {
		deviceText, valueText, found := strings.Cut(set, "=")
		if !found {
			return nil, fmt.Errorf("--set %q: want DEVICE=VALUE", set)
		}
		device, err := strconv.ParseUint(strings.TrimSpace(deviceText), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("--set %q: device: %w", set, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueText), 32)
		if err != nil {
			return nil, fmt.Errorf("--set %q: value: %w", set, err)
		}
		readings = append(readings, deviceReading{device: cortical.DeviceIndex(device), value: float32(value)})
	}
	return readings, nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
