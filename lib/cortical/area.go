// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cortical

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/fault"
)

// AreaTypeLength is the byte width of an area type code.
const AreaTypeLength = 4

// AreaType is a 4-byte code naming a family of sensor or motor areas.
// The first byte is 'i' for input (sensor) areas and 'o' for output
// (motor) areas.
type AreaType string

// Area types known to the bundled configuration. Other codes are valid
// as long as they pass [AreaType.Validate].
const (
	Infrared        AreaType = "iinf"
	Proximity       AreaType = "ipro"
	Battery         AreaType = "ibat"
	Gyroscope       AreaType = "igyr"
	Accelerometer   AreaType = "iacc"
	ServoPosition   AreaType = "isvp"
	Vision          AreaType = "ivis"
	SegmentedVision AreaType = "isvi"
	Motor           AreaType = "omot"
	Servo           AreaType = "oser"
)

// Direction reports whether an area carries data into or out of the
// brain.
type Direction uint8

const (
	DirectionSensor Direction = iota + 1
	DirectionMotor
)

// Validate checks the code's width, character set, and direction
// prefix.
func (areaType AreaType) Validate() error {
	if len(areaType) != AreaTypeLength {
		return fault.BadParameters("cortical.AreaType",
			"area type %q is %d bytes, want %d", string(areaType), len(areaType), AreaTypeLength)
	}
	for index := 0; index < len(areaType); index++ {
		character := areaType[index]
		if character < 0x21 || character > 0x7e {
			return fault.BadParameters("cortical.AreaType",
				"area type %q byte %d is not printable ASCII", string(areaType), index)
		}
	}
	if areaType[0] != 'i' && areaType[0] != 'o' {
		return fault.BadParameters("cortical.AreaType",
			"area type %q must start with 'i' (sensor) or 'o' (motor)", string(areaType))
	}
	return nil
}

// Direction returns DirectionSensor for 'i' codes and DirectionMotor
// for 'o' codes.
// The result is meaningless for codes that fail Validate.
func (areaType AreaType) Direction() Direction {
	if len(areaType) > 0 && areaType[0] == 'o' {
		return DirectionMotor
	}
	return DirectionSensor
}

// Resolver maps an area type and group onto the identifier of the
// concrete cortical area.
type Resolver interface {
	Resolve(areaType AreaType, group GroupIndex) (ID, error)
}

// SuffixResolver appends the group as two lowercase hex digits to the
// 4-byte type code: (ipro, 2) -> "ipro02".
type SuffixResolver struct{}

// Resolve implements Resolver.
func (SuffixResolver) Resolve(areaType AreaType, group GroupIndex) (ID, error) {
	if err := areaType.Validate(); err != nil {
		return ID{}, err
	}
	return ParseID(fmt.Sprintf("%s%02x", string(areaType), uint8(group)))
}

// ResolveSegments returns the nine identifiers of a segmented vision
// area: the type code's last byte is replaced by the segment digit
// 0..8 (center first, then the eight peripheral segments clockwise
// from top-left), followed by the group in hex.
func ResolveSegments(areaType AreaType, group GroupIndex) ([9]ID, error) {
	var identifiers [9]ID
	if err := areaType.Validate(); err != nil {
		return identifiers, err
	}
	prefix := string(areaType[:AreaTypeLength-1])
	for segment := range identifiers {
		id, err := ParseID(fmt.Sprintf("%s%d%02x", prefix, segment, uint8(group)))
		if err != nil {
			return identifiers, err
		}
		identifiers[segment] = id
	}
	return identifiers, nil
}
