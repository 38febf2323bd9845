// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cortexbridge/cortexbridge/lib/bytestructure"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iocache"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
)

// maxNesting bounds container and compression nesting in received
// data.
const maxNesting = 8

// Options configures a Connector.
type Options struct {
	// Logger receives burst and receive events. Nil discards.
	Logger *slog.Logger

	// Compression wraps every burst in a Compressed structure unless
	// it is AlgorithmNone.
	Compression bytestructure.Algorithm

	// IncludeStatusJSON adds a Status document to every burst.
	IncludeStatusJSON bool

	// OnMetadata receives each JSON or CBOR structure found by
	// Receive, as a *bytestructure.JSON or *bytestructure.CBOR. Nil
	// drops them. It runs with the connector locked and must not call
	// back into the Connector.
	OnMetadata func(bytestructure.Serializer)
}

// Status is the JSON document optionally sent alongside neuron data.
type Status struct {
	Session         uuid.UUID             `json:"session"`
	Burst           uint64                `json:"burst"`
	Time            time.Time             `json:"time"`
	ChannelsWritten int                   `json:"channels_written"`
	Neurons         int                   `json:"neurons"`
	Sensors         []iocache.ChannelInfo `json:"sensors"`
}

// ReceiveSummary counts what Receive routed.
type ReceiveSummary struct {
	NeuronStructures int
	MotorChannels    int
	Metadata         int
}

// Connector owns a sensor cache and a motor cache and moves data
// between them and the wire.
type Connector struct {
	mu sync.Mutex

	sensors *iocache.SensorCache
	motors  *iocache.MotorCache
	options Options
	logger  *slog.Logger
	session uuid.UUID

	outgoing *neuron.CorticalMap
	incoming *neuron.CorticalMap
	bursts   uint64
}

// New returns a Connector over the given caches. Either cache may be
// nil for a one-directional connector.
func New(sensors *iocache.SensorCache, motors *iocache.MotorCache, options Options) *Connector {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Connector{
		sensors:  sensors,
		motors:   motors,
		options:  options,
		logger:   logger,
		session:  uuid.New(),
		outgoing: neuron.NewCorticalMap(),
		incoming: neuron.NewCorticalMap(),
	}
}

// UpdateValue feeds a raw value to a sensor channel.
func (connector *Connector) UpdateValue(value iovalue.Value, areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) error {
	connector.mu.Lock()
	defer connector.mu.Unlock()
	if connector.sensors == nil {
		return fault.Configuration("connector.UpdateValue", "connector has no sensor cache")
	}
	return connector.sensors.UpdateValue(value, areaType, group, channel)
}

// UpdateDeviceValue feeds a raw value to the sensor channel mapped to
// device.
func (connector *Connector) UpdateDeviceValue(value iovalue.Value, device cortical.DeviceIndex) error {
	connector.mu.Lock()
	defer connector.mu.Unlock()
	if connector.sensors == nil {
		return fault.Configuration("connector.UpdateDeviceValue", "connector has no sensor cache")
	}
	return connector.sensors.UpdateDeviceValue(value, device)
}

// MotorValue returns the latest decoded value of a motor channel.
func (connector *Connector) MotorValue(areaType cortical.AreaType, group cortical.GroupIndex, channel cortical.ChannelIndex) (iovalue.Value, error) {
	connector.mu.Lock()
	defer connector.mu.Unlock()
	if connector.motors == nil {
		return iovalue.Value{}, fault.Configuration("connector.MotorValue", "connector has no motor cache")
	}
	return connector.motors.ReadValue(areaType, group, channel)
}

// Session identifies this Connector in status documents. It is
// random per Connector.
func (connector *Connector) Session() uuid.UUID {
	return connector.session
}

// Bursts returns the number of successful bursts.
func (connector *Connector) Bursts() uint64 {
	connector.mu.Lock()
	defer connector.mu.Unlock()
	return connector.bursts
}

// Burst encodes the sensor channels due at now and returns the framed
// byte structure. Areas encoded by earlier bursts stay in the neuron
// map with no neurons, so a silent area is sent as an empty entry.
func (connector *Connector) Burst(now time.Time) ([]byte, error) {
	const op = "connector.Burst"
	connector.mu.Lock()
	defer connector.mu.Unlock()

	if connector.sensors == nil {
		return nil, fault.Configuration(op, "connector has no sensor cache")
	}

	connector.outgoing.Reset()
	written, err := connector.sensors.EncodeToNeurons(now, connector.outgoing)
	if err != nil {
		return nil, err
	}

	structure, err := bytestructure.Serialize(bytestructure.NewNeuronXYZP(connector.outgoing))
	if err != nil {
		return nil, err
	}

	if connector.options.IncludeStatusJSON {
		status := Status{
			Session:         connector.session,
			Burst:           connector.bursts + 1,
			Time:            now.UTC(),
			ChannelsWritten: written,
			Neurons:         connector.outgoing.TotalNeurons(),
			Sensors:         connector.sensors.Channels(),
		}
		document, err := bytestructure.NewJSON(status)
		if err != nil {
			return nil, fmt.Errorf("encoding burst status: %w", err)
		}
		container := bytestructure.NewMultiStruct(structure)
		if err := container.AddSerializer(document); err != nil {
			return nil, err
		}
		if structure, err = bytestructure.Serialize(container); err != nil {
			return nil, err
		}
	}

	if connector.options.Compression != bytestructure.AlgorithmNone {
		compressed, err := bytestructure.NewCompressed(structure, connector.options.Compression)
		if err != nil {
			return nil, err
		}
		if structure, err = bytestructure.Serialize(compressed); err != nil {
			return nil, err
		}
	}

	connector.bursts++
	connector.logger.Debug("burst encoded",
		"burst", connector.bursts,
		"channels", written,
		"neurons", connector.outgoing.TotalNeurons(),
		"bytes", structure.Len(),
		"type", structure.Type(),
	)
	return structure.Bytes(), nil
}

// Receive validates data and routes every structure it contains:
// Compressed wrappers are expanded, MultiStruct children are visited in
// order, NeuronXYZP structures are decoded into the motor cache, and
// JSON and CBOR documents go to Options.OnMetadata.
func (connector *Connector) Receive(data []byte) (ReceiveSummary, error) {
	connector.mu.Lock()
	defer connector.mu.Unlock()

	structure, err := bytestructure.New(data)
	if err != nil {
		return ReceiveSummary{}, err
	}

	var summary ReceiveSummary
	if err := connector.route(structure, 0, &summary); err != nil {
		return summary, err
	}
	connector.logger.Debug("structure received",
		"bytes", len(data),
		"neuron_structures", summary.NeuronStructures,
		"motor_channels", summary.MotorChannels,
		"metadata", summary.Metadata,
	)
	return summary, nil
}

func (connector *Connector) route(structure bytestructure.ByteStructure, depth int, summary *ReceiveSummary) error {
	const op = "connector.Receive"
	if depth > maxNesting {
		return fault.Deserialization(op, "structures nest deeper than %d levels", maxNesting)
	}

	switch structure.Type() {
	case bytestructure.TypeCompressed:
		inner, err := bytestructure.Decompress(structure)
		if err != nil {
			return err
		}
		return connector.route(inner, depth+1, summary)

	case bytestructure.TypeMultiStruct:
		container, err := bytestructure.MultiStructFromByteStructure(structure)
		if err != nil {
			return err
		}
		for index, child := range container.Children() {
			if err := connector.route(child, depth+1, summary); err != nil {
				return fmt.Errorf("child %d: %w", index, err)
			}
		}
		return nil

	case bytestructure.TypeNeuronXYZP:
		if connector.motors == nil {
			return fault.Configuration(op, "received neuron data but connector has no motor cache")
		}
		if err := bytestructure.ReadNeuronXYZPInto(structure, connector.incoming); err != nil {
			return err
		}
		decoded, err := connector.motors.DecodeFromNeurons(connector.incoming)
		if err != nil {
			return err
		}
		summary.NeuronStructures++
		summary.MotorChannels += decoded
		return nil

	case bytestructure.TypeJSON, bytestructure.TypeCBOR:
		view, err := structure.View()
		if err != nil {
			return err
		}
		summary.Metadata++
		if connector.options.OnMetadata != nil {
			connector.options.OnMetadata(view)
		}
		return nil

	default:
		return fault.NotImplemented(op, "no handler for structure type %s", structure.Type())
	}
}
