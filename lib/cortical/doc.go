// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cortical provides the addressing vocabulary shared by the
// codec core: cortical area identifiers, area type codes, bounded index
// types, and channel dimensions.
//
// An [ID] is an opaque 6-byte ASCII code naming one cortical area in
// the simulated brain. The naming grammar belongs to the genome
// subsystem; this package only guarantees the fixed width, printable
// ASCII, equality, and use as a map key. [Resolver] is the seam through
// which a genome-aware component maps (area type, group) pairs to IDs.
// [SuffixResolver] is the default scheme: the 4-byte type code followed
// by the group number in two lowercase hex digits.
//
// [GroupIndex], [ChannelIndex], and [DeviceIndex] are distinct integer
// types per semantic role so that a channel cannot be passed where a
// group is expected. Their constructors validate range.
package cortical
