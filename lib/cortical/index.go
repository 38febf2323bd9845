// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cortical

import "github.com/cortexbridge/cortexbridge/lib/fault"

// GroupIndex distinguishes several areas of the same type, e.g. two
// independent proximity sensor arrays.
type GroupIndex uint8

// ChannelIndex addresses one lane within an area.
type ChannelIndex uint32

// DeviceIndex is the caller's own numbering of a physical device,
// mapped onto a (type, group, channel) triple by the sensor cache.
type DeviceIndex uint32

// unsignedIndex is the set of integer kinds an index may wrap.
type unsignedIndex interface {
	~uint8 | ~uint16 | ~uint32
}

// checkedIndex converts value to T, failing when it is negative or does
// not fit.
func checkedIndex[T unsignedIndex](value int, role string) (T, error) {
	limit := uint64(^T(0))
	if value < 0 || uint64(value) > limit {
		return 0, fault.BadParameters("cortical", "%s index %d out of range [0, %d]", role, value, limit)
	}
	return T(value), nil
}

// NewGroupIndex validates value as a group index.
func NewGroupIndex(value int) (GroupIndex, error) {
	return checkedIndex[GroupIndex](value, "group")
}

// NewChannelIndex validates value as a channel index.
func NewChannelIndex(value int) (ChannelIndex, error) {
	return checkedIndex[ChannelIndex](value, "channel")
}

// NewDeviceIndex validates value as a device index.
func NewDeviceIndex(value int) (DeviceIndex, error) {
	return checkedIndex[DeviceIndex](value, "device")
}

// Dimensions is the per-channel spatial extent an encoder assumes.
// Every axis is at least 1.
type Dimensions struct {
	X uint32 `yaml:"x" json:"x"`
	Y uint32 `yaml:"y" json:"y"`
	Z uint32 `yaml:"z" json:"z"`
}

// NewDimensions validates and returns channel dimensions.
func NewDimensions(x, y, z uint32) (Dimensions, error) {
	dimensions := Dimensions{X: x, Y: y, Z: z}
	if err := dimensions.Validate(); err != nil {
		return Dimensions{}, err
	}
	return dimensions, nil
}

// Validate rejects zero-width axes.
func (dimensions Dimensions) Validate() error {
	if dimensions.X == 0 || dimensions.Y == 0 || dimensions.Z == 0 {
		return fault.BadParameters("cortical.Dimensions",
			"dimensions %dx%dx%d must be nonzero on every axis", dimensions.X, dimensions.Y, dimensions.Z)
	}
	return nil
}

// Volume returns X*Y*Z, the neuron capacity of one channel.
func (dimensions Dimensions) Volume() int {
	return int(dimensions.X) * int(dimensions.Y) * int(dimensions.Z)
}
