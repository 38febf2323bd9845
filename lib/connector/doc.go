// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package connector runs the two directions of a neuromorphic
// connector over the byte structure wire format.
//
// [Connector.Burst] encodes every sensor channel due for a push into a
// reused neuron map, serializes it as a NeuronXYZP structure, and
// optionally frames it with a JSON status document in a MultiStruct
// container and a Compressed wrapper. [Connector.Receive] walks an
// incoming buffer through the same framing in reverse, decoding neuron
// structures into the motor cache and handing JSON and CBOR documents
// to a metadata callback.
//
// The sensor and motor caches are not safe for concurrent use. A
// Connector owns them and serializes every access behind one mutex, so
// device updates, bursts, and received data may come from different
// goroutines.
package connector
