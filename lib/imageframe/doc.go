// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package imageframe is the image collaborator consumed by the codec
// core: a [Frame] is a height x width x channel float32 buffer with
// queryable [Properties], and a [SegmentedFrame] is nine frames
// covering a center region and eight peripheral regions.
//
// The codec core only checks properties and calls [Frame.WriteNeurons];
// the pixel kernels here ([CropResize], [GridSegmenter], [Frame.Diff])
// are deliberately simple nearest-neighbour reference implementations.
// A deployment with real vision needs plugs its own [Transformer] or
// [Segmenter] into the stream cache stages.
package imageframe
