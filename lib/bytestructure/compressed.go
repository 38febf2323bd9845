// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package bytestructure

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// Algorithm identifies the compression of a Compressed structure. The
// values are protocol constants.
type Algorithm uint8

const (
	// AlgorithmNone stores the inner structure verbatim. Used when
	// compression would not shrink it.
	AlgorithmNone Algorithm = 0

	// AlgorithmLZ4 is LZ4 block compression.
	AlgorithmLZ4 Algorithm = 1

	// AlgorithmZstd is zstd at the default level. Best for JSON and
	// other text-like metadata.
	AlgorithmZstd Algorithm = 2

	// AlgorithmBG4LZ4 transposes the data in 4-byte groups before LZ4.
	// Neuron payloads are runs of 32-bit words whose high bytes are
	// mostly equal, which the transposition turns into long runs.
	AlgorithmBG4LZ4 Algorithm = 3
)

func (algorithm Algorithm) String() string {
	switch algorithm {
	case AlgorithmNone:
		return "none"
	case AlgorithmLZ4:
		return "lz4"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmBG4LZ4:
		return "bg4_lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(algorithm))
	}
}

// ParseAlgorithm parses an algorithm name as printed by String.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none":
		return AlgorithmNone, nil
	case "lz4":
		return AlgorithmLZ4, nil
	case "zstd":
		return AlgorithmZstd, nil
	case "bg4_lz4":
		return AlgorithmBG4LZ4, nil
	default:
		return 0, fault.BadParameters("bytestructure.ParseAlgorithm", "unknown compression algorithm %q", name)
	}
}

const (
	// compressedPrefixSize is the algorithm byte and inner length.
	compressedPrefixSize = 1 + 4

	// MaxInnerLength bounds the declared inner length a reader will
	// allocate for.
	MaxInnerLength = 256 << 20
)

// Compressed wraps exactly one inner structure.
type Compressed struct {
	algorithm Algorithm
	inner     ByteStructure
	payload   []byte
}

// NewCompressed compresses inner with algorithm. If the result would
// not be smaller than inner, the structure falls back to AlgorithmNone;
// Algorithm reports the one actually used.
func NewCompressed(inner ByteStructure, algorithm Algorithm) (*Compressed, error) {
	const op = "bytestructure.NewCompressed"
	if inner.IsZero() {
		return nil, fault.BadParameters(op, "empty inner structure")
	}
	if inner.Len() > MaxInnerLength {
		return nil, fault.BadParameters(op, "inner structure of %d bytes exceeds %d", inner.Len(), MaxInnerLength)
	}
	payload, err := compress(inner.Bytes(), algorithm)
	if errors.Is(err, errIncompressible) {
		return &Compressed{algorithm: AlgorithmNone, inner: inner, payload: inner.Bytes()}, nil
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindSerialization, op, err, "%s compression", algorithm)
	}
	return &Compressed{algorithm: algorithm, inner: inner, payload: payload}, nil
}

// CompressedFromByteStructure parses a compressed structure,
// decompresses it, and validates the inner structure's header.
func CompressedFromByteStructure(structure ByteStructure) (*Compressed, error) {
	const op = "bytestructure.CompressedFromByteStructure"
	if err := structure.expect(op, TypeCompressed); err != nil {
		return nil, err
	}
	data := structure.Bytes()
	if len(data) < HeaderSize+compressedPrefixSize {
		return nil, fault.Deserialization(op, "buffer is %d bytes, need at least %d",
			len(data), HeaderSize+compressedPrefixSize)
	}
	algorithm := Algorithm(data[HeaderSize])
	innerLength := int(binary.LittleEndian.Uint32(data[HeaderSize+1:]))
	if innerLength > MaxInnerLength {
		return nil, fault.Deserialization(op, "declared inner length %d exceeds %d", innerLength, MaxInnerLength)
	}
	payload := data[HeaderSize+compressedPrefixSize:]
	innerBytes, err := decompress(payload, algorithm, innerLength)
	if err != nil {
		return nil, fault.Wrap(fault.KindDeserialization, op, err, "%s payload", algorithm)
	}
	inner, err := New(innerBytes)
	if err != nil {
		return nil, fault.Wrap(fault.KindDeserialization, op, err, "inner structure")
	}
	return &Compressed{algorithm: algorithm, inner: inner, payload: payload}, nil
}

// Algorithm returns the algorithm used for the payload.
func (compressed *Compressed) Algorithm() Algorithm { return compressed.algorithm }

// Inner returns the uncompressed inner structure.
func (compressed *Compressed) Inner() ByteStructure { return compressed.inner }

func (compressed *Compressed) Type() Type     { return TypeCompressed }
func (compressed *Compressed) Version() uint8 { return TypeCompressed.Version() }

// MaxBytesNeeded implements Serializer. The size is exact.
func (compressed *Compressed) MaxBytesNeeded() int {
	return HeaderSize + compressedPrefixSize + len(compressed.payload)
}

// WriteInto implements Serializer.
func (compressed *Compressed) WriteInto(buffer []byte) (int, error) {
	needed := compressed.MaxBytesNeeded()
	if err := writeHeader(compressed, buffer, needed); err != nil {
		return 0, err
	}
	buffer[HeaderSize] = uint8(compressed.algorithm)
	binary.LittleEndian.PutUint32(buffer[HeaderSize+1:], uint32(compressed.inner.Len()))
	copy(buffer[HeaderSize+compressedPrefixSize:], compressed.payload)
	return len(buffer) - needed, nil
}

// Decompress returns structure's inner structure if it is Compressed,
// and structure itself otherwise.
func Decompress(structure ByteStructure) (ByteStructure, error) {
	if structure.Type() != TypeCompressed {
		return structure, nil
	}
	compressed, err := CompressedFromByteStructure(structure)
	if err != nil {
		return ByteStructure{}, err
	}
	return compressed.inner, nil
}

func compress(data []byte, algorithm Algorithm) ([]byte, error) {
	switch algorithm {
	case AlgorithmNone:
		return data, nil
	case AlgorithmLZ4:
		return compressLZ4(data)
	case AlgorithmZstd:
		return compressZstd(data)
	case AlgorithmBG4LZ4:
		return compressLZ4(bg4Transpose(data))
	default:
		return nil, fmt.Errorf("unsupported compression algorithm %d", algorithm)
	}
}

func decompress(payload []byte, algorithm Algorithm, innerLength int) ([]byte, error) {
	switch algorithm {
	case AlgorithmNone:
		if len(payload) != innerLength {
			return nil, fmt.Errorf("stored payload is %d bytes, declared %d", len(payload), innerLength)
		}
		return payload, nil
	case AlgorithmLZ4:
		return decompressLZ4(payload, innerLength)
	case AlgorithmZstd:
		return decompressZstd(payload, innerLength)
	case AlgorithmBG4LZ4:
		transposed, err := decompressLZ4(payload, innerLength)
		if err != nil {
			return nil, err
		}
		return bg4Untranspose(transposed), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm %d", algorithm)
	}
}

// errIncompressible means the compressed form is not smaller than the
// input; the caller stores the input verbatim.
var errIncompressible = errors.New("data is incompressible")

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("bytestructure: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxInnerLength))
	if err != nil {
		panic("bytestructure: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}

// bg4Transpose groups byte 0 of every 4-byte word first, then byte 1,
// and so on. Trailing bytes past the last full word are copied as-is.
func bg4Transpose(data []byte) []byte {
	groups := len(data) / 4
	output := make([]byte, len(data))
	for index := range groups {
		output[index] = data[index*4]
		output[groups+index] = data[index*4+1]
		output[groups*2+index] = data[index*4+2]
		output[groups*3+index] = data[index*4+3]
	}
	copy(output[groups*4:], data[groups*4:])
	return output
}

// bg4Untranspose reverses bg4Transpose.
func bg4Untranspose(data []byte) []byte {
	groups := len(data) / 4
	output := make([]byte, len(data))
	for index := range groups {
		output[index*4] = data[index]
		output[index*4+1] = data[groups+index]
		output[index*4+2] = data[groups*2+index]
		output[index*4+3] = data[groups*3+index]
	}
	copy(output[groups*4:], data[groups*4:])
	return output
}
