// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/cortexbridge/cortexbridge/lib/cortical"
	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/neuron"
	"github.com/cortexbridge/cortexbridge/lib/testutil"
)

func mustSerialize(t *testing.T, serializer Serializer) ByteStructure {
	t.Helper()
	structure, err := Serialize(serializer)
	if err != nil {
		t.Fatalf("Serialize(%s): %v", serializer.Type(), err)
	}
	return structure
}

func sampleNeurons() *neuron.CorticalMap {
	neurons := neuron.NewCorticalMap()
	neurons.Insert(cortical.MustParseID("omot00"), neuron.ArraysFromNeurons(
		neuron.XYZP{X: 1, Y: 0, Z: 0, Potential: 0.5},
		neuron.XYZP{X: 2, Y: 0, Z: 0, Potential: 0.8},
	))
	neurons.Insert(cortical.MustParseID("ipro00"), neuron.ArraysFromNeurons(
		neuron.XYZP{X: 0, Y: 0, Z: 7, Potential: 1},
	))
	neurons.Insert(cortical.MustParseID("ivis00"), neuron.NewArrays(0))
	return neurons
}

func TestNewRejectsBadHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"three bytes", []byte{1, 1, '1'}},
		{"unknown type", []byte{7, 1, 0, 0}},
		{"zero type", []byte{0, 1, 0, 0}},
		{"zero version", []byte{1, 0, '1', ' '}},
	}
	for _, test := range tests {
		_, err := New(test.data)
		testutil.RequireErrorKind(t, err, fault.KindDeserialization, test.name)
	}

	structure, err := New([]byte{1, 1, '{', '}'})
	if err != nil {
		t.Fatalf("New(valid): %v", err)
	}
	if structure.Type() != TypeJSON || structure.Version() != 1 {
		t.Errorf("header = %s v%d, want json v1", structure.Type(), structure.Version())
	}
}

func TestNeuronXYZPLayout(t *testing.T) {
	t.Parallel()

	neurons := neuron.NewCorticalMap()
	neurons.Insert(cortical.MustParseID("ipro00"), neuron.ArraysFromNeurons(
		neuron.XYZP{X: 1, Y: 2, Z: 3, Potential: 0.5},
		neuron.XYZP{X: 4, Y: 5, Z: 6, Potential: -1},
	))
	structure := mustSerialize(t, NewNeuronXYZP(neurons))

	var want []byte
	want = append(want, 11, 1)
	want = binary.LittleEndian.AppendUint16(want, 1)
	want = append(want, "ipro00"...)
	want = binary.LittleEndian.AppendUint32(want, 18)
	want = binary.LittleEndian.AppendUint32(want, 32)
	for _, word := range []uint32{1, 4, 2, 5, 3, 6, math.Float32bits(0.5), math.Float32bits(-1)} {
		want = binary.LittleEndian.AppendUint32(want, word)
	}
	if !bytes.Equal(structure.Bytes(), want) {
		t.Errorf("bytes = %v\nwant    %v", structure.Bytes(), want)
	}
}

func TestNeuronXYZPRoundTrip(t *testing.T) {
	t.Parallel()

	original := sampleNeurons()
	structure := mustSerialize(t, NewNeuronXYZP(original))
	if structure.Len() != NewNeuronXYZP(original).MaxBytesNeeded() {
		t.Errorf("Len = %d, MaxBytesNeeded = %d", structure.Len(), NewNeuronXYZP(original).MaxBytesNeeded())
	}
	decoded, err := NeuronXYZPFromByteStructure(structure)
	if err != nil {
		t.Fatalf("NeuronXYZPFromByteStructure: %v", err)
	}
	if !decoded.Neurons().Equal(original) {
		t.Error("decoded map differs from the original")
	}

	// Reading into a reused map empties areas the structure omits.
	reused := sampleNeurons()
	reused.Insert(cortical.MustParseID("ibat00"), neuron.ArraysFromNeurons(neuron.XYZP{Potential: 1}))
	if err := ReadNeuronXYZPInto(structure, reused); err != nil {
		t.Fatalf("ReadNeuronXYZPInto: %v", err)
	}
	battery, _ := reused.Get(cortical.MustParseID("ibat00"))
	if battery.Len() != 0 {
		t.Errorf("stale area kept %d neurons", battery.Len())
	}
	motor, _ := reused.Get(cortical.MustParseID("omot00"))
	if motor.Len() != 2 {
		t.Errorf("motor area has %d neurons, want 2", motor.Len())
	}
}

func TestNeuronXYZPRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	neurons := neuron.NewCorticalMap()
	neurons.Insert(cortical.MustParseID("ipro00"), neuron.ArraysFromNeurons(neuron.XYZP{X: 1, Potential: 1}))
	valid := mustSerialize(t, NewNeuronXYZP(neurons)).Bytes()
	lengthField := HeaderSize + areaCountSize + cortical.IDLength + 4
	offsetField := HeaderSize + areaCountSize + cortical.IDLength

	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{"length not a multiple of 16", func(data []byte) { binary.LittleEndian.PutUint32(data[lengthField:], 12) }},
		{"length past the end", func(data []byte) { binary.LittleEndian.PutUint32(data[lengthField:], 32) }},
		{"offset inside subheaders", func(data []byte) { binary.LittleEndian.PutUint32(data[offsetField:], 4) }},
		{"area count too large", func(data []byte) { binary.LittleEndian.PutUint16(data[HeaderSize:], 9) }},
		{"unprintable identifier", func(data []byte) { data[HeaderSize+areaCountSize] = 0 }},
		{"wrong version", func(data []byte) { data[1] = 2 }},
	}
	for _, test := range tests {
		data := bytes.Clone(valid)
		test.mutate(data)
		structure, err := New(data)
		if err != nil {
			t.Fatalf("%s: New: %v", test.name, err)
		}
		_, err = NeuronXYZPFromByteStructure(structure)
		testutil.RequireErrorKind(t, err, fault.KindDeserialization, test.name)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	documents := []any{
		map[string]any{"burst": 3.0, "channels": []any{"ipro00", "omot00"}},
		[]any{1.0, 2.0, 3.0},
		"status",
		1.0,
		true,
		nil,
	}
	for _, document := range documents {
		view, err := NewJSON(document)
		if err != nil {
			t.Fatalf("NewJSON(%v): %v", document, err)
		}
		structure := mustSerialize(t, view)
		if structure.Len() < MinimumLength {
			t.Fatalf("structure for %v is %d bytes", document, structure.Len())
		}
		parsed, err := JSONFromByteStructure(structure)
		if err != nil {
			t.Fatalf("JSONFromByteStructure(%v): %v", document, err)
		}
		var decoded any
		if err := parsed.Decode(&decoded); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, document) {
			t.Errorf("decoded %#v, want %#v", decoded, document)
		}
	}

	_, err := JSONFromText([]byte("{not json"))
	testutil.RequireErrorKind(t, err, fault.KindBadParameters)

	invalid, _ := New([]byte{1, 1, '{', '{'})
	_, err = JSONFromByteStructure(invalid)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)
}

type descriptor struct {
	Area    cortical.ID `json:"area"`
	Channel uint32      `json:"channel"`
}

func TestCBORRoundTrip(t *testing.T) {
	t.Parallel()

	original := descriptor{Area: cortical.MustParseID("isvp00"), Channel: 4}
	view, err := NewCBOR(original)
	if err != nil {
		t.Fatalf("NewCBOR: %v", err)
	}
	structure := mustSerialize(t, view)
	if !bytes.HasPrefix(structure.Payload(), selfDescribed) {
		t.Errorf("payload %x lacks the self-described tag", structure.Payload())
	}
	parsed, err := CBORFromByteStructure(structure)
	if err != nil {
		t.Fatalf("CBORFromByteStructure: %v", err)
	}
	var decoded descriptor
	if err := parsed.Decode(&decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded %+v, want %+v", decoded, original)
	}

	small, _ := NewCBOR(0)
	if structure := mustSerialize(t, small); structure.Len() < MinimumLength {
		t.Errorf("one-byte item produced a %d byte structure", structure.Len())
	}
}

func TestMultiStructPreservesOrder(t *testing.T) {
	t.Parallel()

	status, _ := NewJSON(map[string]int{"burst": 1})
	inner := NewMultiStruct(mustSerialize(t, status))
	children := []ByteStructure{
		mustSerialize(t, NewNeuronXYZP(sampleNeurons())),
		mustSerialize(t, status),
		mustSerialize(t, inner),
	}
	packed := mustSerialize(t, NewMultiStruct(children...))

	unpacked, err := MultiStructFromByteStructure(packed)
	if err != nil {
		t.Fatalf("MultiStructFromByteStructure: %v", err)
	}
	if unpacked.Len() != len(children) {
		t.Fatalf("unpacked %d children, want %d", unpacked.Len(), len(children))
	}
	for index, child := range unpacked.Children() {
		if child.Type() != children[index].Type() {
			t.Errorf("child %d type = %s, want %s", index, child.Type(), children[index].Type())
		}
		if !bytes.Equal(child.Bytes(), children[index].Bytes()) {
			t.Errorf("child %d bytes differ", index)
		}
	}

	nested, err := MultiStructFromByteStructure(unpacked.Children()[2])
	if err != nil {
		t.Fatalf("nested container: %v", err)
	}
	if nested.Len() != 1 || nested.Children()[0].Type() != TypeJSON {
		t.Errorf("nested container = %d children", nested.Len())
	}
}

func TestMultiStructErrors(t *testing.T) {
	t.Parallel()

	_, err := Serialize(NewMultiStruct())
	testutil.RequireErrorKind(t, err, fault.KindSerialization, "empty container")

	status, _ := NewJSON("ok")
	child := mustSerialize(t, status)
	packed := mustSerialize(t, NewMultiStruct(child)).Bytes()

	corrupt := bytes.Clone(packed)
	binary.LittleEndian.PutUint32(corrupt[HeaderSize+childCountSize+4:], 100)
	structure, _ := New(corrupt)
	_, err = MultiStructFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization, "child past the end")

	corrupt = bytes.Clone(packed)
	corrupt[HeaderSize+childCountSize+ChildSubheaderSize] = 0 // child type id
	structure, _ = New(corrupt)
	_, err = MultiStructFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization, "invalid child header")

	empty, err := New([]byte{byte(TypeMultiStruct), 1, 0, 0})
	if err != nil {
		t.Fatalf("New(empty container): %v", err)
	}
	_, err = MultiStructFromByteStructure(empty)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization, "zero children")
}

func TestWriteIntoShortBuffer(t *testing.T) {
	t.Parallel()

	status, _ := NewJSON(map[string]string{"state": "ready"})
	_, err := status.WriteInto(make([]byte, 4))
	testutil.RequireErrorKind(t, err, fault.KindSerialization)

	buffer := make([]byte, status.MaxBytesNeeded()+5)
	unused, err := status.WriteInto(buffer)
	if err != nil {
		t.Fatalf("WriteInto: %v", err)
	}
	if unused != 5 {
		t.Errorf("unused = %d, want 5", unused)
	}
}

func TestDeserializersCheckType(t *testing.T) {
	t.Parallel()

	status, _ := NewJSON("ok")
	structure := mustSerialize(t, status)
	_, err := NeuronXYZPFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)
	_, err = MultiStructFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)
	_, err = CompressedFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)
	_, err = JSONFromByteStructure(ByteStructure{})
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)
}

func TestView(t *testing.T) {
	t.Parallel()

	status, _ := NewJSON("ok")
	metadata, _ := NewCBOR(descriptor{Area: cortical.MustParseID("ipro00")})
	neurons := NewNeuronXYZP(sampleNeurons())
	container := NewMultiStruct(mustSerialize(t, status))
	compressed, _ := NewCompressed(mustSerialize(t, neurons), AlgorithmLZ4)

	for _, serializer := range []Serializer{status, metadata, neurons, container, compressed} {
		view, err := mustSerialize(t, serializer).View()
		if err != nil {
			t.Fatalf("View(%s): %v", serializer.Type(), err)
		}
		if reflect.TypeOf(view) != reflect.TypeOf(serializer) {
			t.Errorf("View(%s) = %T, want %T", serializer.Type(), view, serializer)
		}
	}
}

// largeNeurons builds a map whose payload compresses well.
func largeNeurons() *neuron.CorticalMap {
	arrays := neuron.NewArrays(512)
	for index := range 512 {
		arrays.Append(uint32(index%32), uint32(index/32), 0, 0.5)
	}
	neurons := neuron.NewCorticalMap()
	neurons.Insert(cortical.MustParseID("ivis00"), arrays)
	return neurons
}

func TestCompressedRoundTrip(t *testing.T) {
	t.Parallel()

	inner := mustSerialize(t, NewNeuronXYZP(largeNeurons()))
	for _, algorithm := range []Algorithm{AlgorithmNone, AlgorithmLZ4, AlgorithmZstd, AlgorithmBG4LZ4} {
		view, err := NewCompressed(inner, algorithm)
		if err != nil {
			t.Fatalf("NewCompressed(%s): %v", algorithm, err)
		}
		if view.Algorithm() != algorithm {
			t.Errorf("Algorithm = %s, want %s", view.Algorithm(), algorithm)
		}
		structure := mustSerialize(t, view)
		if algorithm != AlgorithmNone && structure.Len() >= inner.Len() {
			t.Errorf("%s: compressed %d bytes into %d", algorithm, inner.Len(), structure.Len())
		}
		restored, err := Decompress(structure)
		if err != nil {
			t.Fatalf("Decompress(%s): %v", algorithm, err)
		}
		if !bytes.Equal(restored.Bytes(), inner.Bytes()) {
			t.Errorf("%s: restored bytes differ", algorithm)
		}
	}
}

func TestCompressedFallsBackWhenIncompressible(t *testing.T) {
	t.Parallel()

	status, _ := NewJSON("x")
	inner := mustSerialize(t, status)
	view, err := NewCompressed(inner, AlgorithmZstd)
	if err != nil {
		t.Fatalf("NewCompressed: %v", err)
	}
	if view.Algorithm() != AlgorithmNone {
		t.Errorf("Algorithm = %s, want none", view.Algorithm())
	}
	restored, err := Decompress(mustSerialize(t, view))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(restored.Bytes(), inner.Bytes()) {
		t.Error("restored bytes differ")
	}

	passthrough, _ := Decompress(inner)
	if !bytes.Equal(passthrough.Bytes(), inner.Bytes()) {
		t.Error("Decompress altered an uncompressed structure")
	}
}

func TestCompressedRejectsCorruption(t *testing.T) {
	t.Parallel()

	inner := mustSerialize(t, NewNeuronXYZP(largeNeurons()))
	view, _ := NewCompressed(inner, AlgorithmLZ4)
	data := bytes.Clone(mustSerialize(t, view).Bytes())
	binary.LittleEndian.PutUint32(data[HeaderSize+1:], uint32(inner.Len()+1))
	structure, _ := New(data)
	_, err := CompressedFromByteStructure(structure)
	testutil.RequireErrorKind(t, err, fault.KindDeserialization)

	_, err = ParseAlgorithm("brotli")
	testutil.RequireErrorKind(t, err, fault.KindBadParameters)
}

func TestBG4TransposeRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	transposed := bg4Transpose(data)
	if want := []byte{1, 5, 2, 6, 3, 7, 4, 8, 9, 10}; !bytes.Equal(transposed, want) {
		t.Errorf("bg4Transpose = %v, want %v", transposed, want)
	}
	if restored := bg4Untranspose(transposed); !bytes.Equal(restored, data) {
		t.Errorf("bg4Untranspose = %v, want %v", restored, data)
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()

	first := mustSerialize(t, NewNeuronXYZP(sampleNeurons()))
	second := mustSerialize(t, NewNeuronXYZP(sampleNeurons()))
	if first.Digest() != second.Digest() {
		t.Error("equal structures have different digests")
	}
	status, _ := NewJSON("ok")
	if first.Digest() == mustSerialize(t, status).Digest() {
		t.Error("different structures share a digest")
	}
	if text := first.Digest().String(); len(text) != 64 {
		t.Errorf("digest text %q is %d characters, want 64", text, len(text))
	}
}
