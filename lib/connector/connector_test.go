// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"sync"
	"testing"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/bytestructure"
	"github.com/cortexbridge/cortexbridge/lib/clock"
	"github.com/cortexbridge/cortexbridge/lib/config"
	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iocache"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
	"github.com/cortexbridge/cortexbridge/lib/testutil"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const connectorYAML = `
sensors:
  - type: ipro
    encoding: split_sign_divided
    dimensions: {x: 2, y: 1, z: 1}
    channels:
      - index: 0
        device: 7
        pipeline: [{type: linear_scale_m1_1, lower: 0, upper: 100}]
motors:
  - type: omot
    encoding: bidirectional
    channels:
      - index: 0
`

func newConnector(t *testing.T, options Options) *Connector {
	t.Helper()
	cfg, err := config.Parse([]byte(connectorYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	caches, err := cfg.Build(iocache.Options{Clock: clock.Fake(epoch)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return New(caches.Sensors, caches.Motors, options)
}

func updateDevice(t *testing.T, connector *Connector, raw float32) {
	t.Helper()
	value, err := iovalue.F32(raw)
	if err != nil {
		t.Fatalf("F32(%v): %v", raw, err)
	}
	if err := connector.UpdateDeviceValue(value, 7); err != nil {
		t.Fatalf("UpdateDeviceValue: %v", err)
	}
}

func TestBurstNeuronData(t *testing.T) {
	t.Parallel()

	connector := newConnector(t, Options{})
	updateDevice(t, connector, 100)

	data, err := connector.Burst(epoch)
	if err != nil {
		t.Fatalf("Burst: %v", err)
	}
	structure, err := bytestructure.New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if structure.Type() != bytestructure.TypeNeuronXYZP {
		t.Fatalf("burst type = %s, want neuron data", structure.Type())
	}
	decoded, err := bytestructure.NeuronXYZPFromByteStructure(structure)
	if err != nil {
		t.Fatalf("NeuronXYZPFromByteStructure: %v", err)
	}
	arrays, ok := decoded.Neurons().Get(cortical.MustParseID("ipro00"))
	if !ok || arrays.Len() != 1 {
		t.Fatalf("ipro00 = %v, %v; want one neuron", arrays, ok)
	}
	sample := arrays.At(0)
	if sample.X != 1 || sample.Z != 0 {
		t.Errorf("neuron = %+v, want x=1 z=0", sample)
	}
	testutil.RequireNear(t, sample.Potential, float32(1), 1e-6, "full-scale potential")

	// Nothing changed: the area is still sent, with no neurons.
	data, err = connector.Burst(epoch.Add(time.Second))
	if err != nil {
		t.Fatalf("second Burst: %v", err)
	}
	structure, _ = bytestructure.New(data)
	decoded, err = bytestructure.NeuronXYZPFromByteStructure(structure)
	if err != nil {
		t.Fatalf("second NeuronXYZPFromByteStructure: %v", err)
	}
	if total := decoded.Neurons().TotalNeurons(); total != 0 {
		t.Errorf("second burst carries %d neurons, want 0", total)
	}
	if connector.Bursts() != 2 {
		t.Errorf("Bursts() = %d, want 2", connector.Bursts())
	}
}

func TestBurstFraming(t *testing.T) {
	t.Parallel()

	for _, algorithm := range []bytestructure.Algorithm{
		bytestructure.AlgorithmLZ4,
		bytestructure.AlgorithmZstd,
		bytestructure.AlgorithmBG4LZ4,
	} {
		t.Run(algorithm.String(), func(t *testing.T) {
			t.Parallel()

			connector := newConnector(t, Options{Compression: algorithm, IncludeStatusJSON: true})
			updateDevice(t, connector, 25)

			data, err := connector.Burst(epoch)
			if err != nil {
				t.Fatalf("Burst: %v", err)
			}
			outer, err := bytestructure.New(data)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if outer.Type() != bytestructure.TypeCompressed {
				t.Fatalf("outer type = %s, want compressed", outer.Type())
			}
			inner, err := bytestructure.Decompress(outer)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			container, err := bytestructure.MultiStructFromByteStructure(inner)
			if err != nil {
				t.Fatalf("MultiStructFromByteStructure: %v", err)
			}
			children := container.Children()
			if len(children) != 2 ||
				children[0].Type() != bytestructure.TypeNeuronXYZP ||
				children[1].Type() != bytestructure.TypeJSON {
				t.Fatalf("children = %d, want neuron data then JSON", len(children))
			}

			document, err := bytestructure.JSONFromByteStructure(children[1])
			if err != nil {
				t.Fatalf("JSONFromByteStructure: %v", err)
			}
			var status Status
			if err := document.Decode(&status); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if status.Burst != 1 || status.ChannelsWritten != 1 || status.Neurons != 1 {
				t.Errorf("status = %+v", status)
			}
			if status.Session != connector.Session() {
				t.Errorf("status session = %s, want %s", status.Session, connector.Session())
			}
			if !status.Time.Equal(epoch) {
				t.Errorf("status time = %v, want %v", status.Time, epoch)
			}
			if len(status.Sensors) != 1 || status.Sensors[0].AreaType != cortical.Proximity {
				t.Errorf("status sensors = %+v", status.Sensors)
			}
		})
	}
}

// motorStructure builds a received payload: neuron data for omot00
// with a positive channel 0 neuron, a JSON note, all compressed.
func motorStructure(t *testing.T, potential float32) []byte {
	t.Helper()
	neurons := neuron.NewCorticalMap()
	neurons.Insert(cortical.MustParseID("omot00"), neuron.ArraysFromNeurons(neuron.XYZP{X: 1, Potential: potential}))

	container := bytestructure.NewMultiStruct()
	if err := container.AddSerializer(bytestructure.NewNeuronXYZP(neurons)); err != nil {
		t.Fatalf("AddSerializer(neurons): %v", err)
	}
	note, err := bytestructure.NewJSON(map[string]string{"note": "hello"})
	if err != nil {
		t.Fatalf("NewJSON: %v", err)
	}
	if err := container.AddSerializer(note); err != nil {
		t.Fatalf("AddSerializer(note): %v", err)
	}
	multi, err := bytestructure.Serialize(container)
	if err != nil {
		t.Fatalf("Serialize(container): %v", err)
	}
	compressed, err := bytestructure.NewCompressed(multi, bytestructure.AlgorithmZstd)
	if err != nil {
		t.Fatalf("NewCompressed: %v", err)
	}
	outer, err := bytestructure.Serialize(compressed)
	if err != nil {
		t.Fatalf("Serialize(compressed): %v", err)
	}
	return outer.Bytes()
}

func TestReceive(t *testing.T) {
	t.Parallel()

	var metadata []bytestructure.Serializer
	connector := newConnector(t, Options{
		OnMetadata: func(view bytestructure.Serializer) { metadata = append(metadata, view) },
	})

	summary, err := connector.Receive(motorStructure(t, 0.75))
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	want := ReceiveSummary{NeuronStructures: 1, MotorChannels: 1, Metadata: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	value, err := connector.MotorValue(cortical.Motor, 0, 0)
	if err != nil {
		t.Fatalf("MotorValue: %v", err)
	}
	got, _ := value.Float()
	testutil.RequireNear(t, got, float32(0.75), 1e-6, "motor channel 0")

	if len(metadata) != 1 {
		t.Fatalf("got %d metadata documents, want 1", len(metadata))
	}
	document, ok := metadata[0].(*bytestructure.JSON)
	if !ok {
		t.Fatalf("metadata is %T, want *bytestructure.JSON", metadata[0])
	}
	var note map[string]string
	if err := document.Decode(&note); err != nil || note["note"] != "hello" {
		t.Errorf("note = %v, %v", note, err)
	}
}

func TestReceiveErrors(t *testing.T) {
	t.Parallel()

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		connector := newConnector(t, Options{})
		_, err := connector.Receive([]byte{0x0b})
		testutil.RequireErrorKind(t, err, fault.KindDeserialization)
	})

	t.Run("no motor cache", func(t *testing.T) {
		t.Parallel()
		connector := New(nil, nil, Options{})
		_, err := connector.Receive(motorStructure(t, 0.5))
		testutil.RequireErrorKind(t, err, fault.KindConfiguration)
	})

	t.Run("no sensor cache", func(t *testing.T) {
		t.Parallel()
		connector := New(nil, nil, Options{})
		_, err := connector.Burst(epoch)
		testutil.RequireErrorKind(t, err, fault.KindConfiguration)
	})
}

func TestLoopback(t *testing.T) {
	t.Parallel()

	// A sensor burst decoded by a second connector whose motor area
	// reads the same layout. The motor cache needs an 'o' area, so the
	// sensor neurons are relabelled before delivery.
	sender := newConnector(t, Options{})
	updateDevice(t, sender, 25)
	data, err := sender.Burst(epoch)
	if err != nil {
		t.Fatalf("Burst: %v", err)
	}
	structure, _ := bytestructure.New(data)
	decoded, err := bytestructure.NeuronXYZPFromByteStructure(structure)
	if err != nil {
		t.Fatalf("NeuronXYZPFromByteStructure: %v", err)
	}
	arrays, _ := decoded.Neurons().Get(cortical.MustParseID("ipro00"))
	relabelled := neuron.NewCorticalMap()
	relabelled.Insert(cortical.MustParseID("omot00"), arrays)
	relay, err := bytestructure.Serialize(bytestructure.NewNeuronXYZP(relabelled))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	receiver := newConnector(t, Options{})
	if _, err := receiver.Receive(relay.Bytes()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	value, err := receiver.MotorValue(cortical.Motor, 0, 0)
	if err != nil {
		t.Fatalf("MotorValue: %v", err)
	}
	got, _ := value.Float()
	// 25 on the 0..100 scale maps to -0.5.
	testutil.RequireNear(t, got, float32(-0.5), 1e-6, "loopback value")
}

func TestConcurrentBursts(t *testing.T) {
	t.Parallel()

	connector := newConnector(t, Options{IncludeStatusJSON: true})
	var group sync.WaitGroup
	for worker := range 4 {
		group.Add(1)
		go func() {
			defer group.Done()
			for step := range 25 {
				value, _ := iovalue.F32(float32(worker*25 + step))
				if err := connector.UpdateDeviceValue(value, 7); err != nil {
					t.Errorf("UpdateDeviceValue: %v", err)
					return
				}
				if _, err := connector.Burst(epoch.Add(time.Duration(step) * time.Millisecond)); err != nil {
					t.Errorf("Burst: %v", err)
					return
				}
			}
		}()
	}
	group.Wait()

	if got := connector.Bursts(); got != 100 {
		t.Errorf("Bursts() = %d, want 100", got)
	}
}
