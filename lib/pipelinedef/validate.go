// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinedef

import (
	"fmt"

	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// Validate checks a definition for structural problems and returns a
// list of human-readable issues. An empty list means the definition is
// well formed. Validate does not check that adjacent stages agree on
// their value types: that needs the constructed stages, and Build
// reports it through streamcache.NewRunner.
func Validate(definition *Definition) []string {
	var issues []string

	if len(definition.Stages) == 0 {
		issues = append(issues, "stages: at least one stage is required")
	}

	sawImage := false
	for index, stage := range definition.Stages {
		prefix := fmt.Sprintf("stages[%d]", index)
		issues = append(issues, validateStage(prefix, stage, sawImage)...)
		if stage.isImage() {
			sawImage = true
		}
	}

	return issues
}

func validateStage(prefix string, stage Stage, sawImage bool) []string {
	var issues []string

	if stage.Image != nil {
		if _, err := stage.Image.Properties(); err != nil {
			issues = append(issues, fmt.Sprintf("%s.image: %v", prefix, err))
		}
	}

	switch stage.Type {
	case StageIdentity:
		kind, err := iovalue.ParseKind(stage.Kind)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s (identity): kind: %v", prefix, err))
			break
		}
		if kind == iovalue.KindSegmentedImageFrame {
			issues = append(issues, fmt.Sprintf("%s (identity): kind %s is not supported in definitions", prefix, kind))
		}
		if kind.IsFloat() && stage.Image != nil {
			issues = append(issues, fmt.Sprintf("%s (identity): image is only valid for kind ImageFrame", prefix))
		}

	case StageLinearScale0To1, StageLinearScaleM1To1:
		if stage.Lower == nil || stage.Upper == nil {
			issues = append(issues, fmt.Sprintf("%s (%s): lower and upper are required", prefix, stage.Type))
			break
		}
		if !(*stage.Lower < *stage.Upper) {
			issues = append(issues, fmt.Sprintf("%s (%s): lower %v must be below upper %v",
				prefix, stage.Type, *stage.Lower, *stage.Upper))
		}
		if stage.Initial != nil && (*stage.Initial < *stage.Lower || *stage.Initial > *stage.Upper) {
			issues = append(issues, fmt.Sprintf("%s (%s): initial %v is outside [%v, %v]",
				prefix, stage.Type, *stage.Initial, *stage.Lower, *stage.Upper))
		}

	case StageRollingAverage:
		kind, err := iovalue.ParseKind(stage.Kind)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s (rolling_average): kind: %v", prefix, err))
		} else if !kind.IsFloat() {
			issues = append(issues, fmt.Sprintf("%s (rolling_average): kind %s is not a float kind", prefix, kind))
		}
		if stage.Window <= 0 {
			issues = append(issues, fmt.Sprintf("%s (rolling_average): window must be positive, got %d", prefix, stage.Window))
		}

	case StageImageQuickDiff:
		if stage.Threshold < 0 || stage.Threshold > 1 {
			issues = append(issues, fmt.Sprintf("%s (image_quick_diff): threshold %v is outside [0, 1]", prefix, stage.Threshold))
		}

	case StageImageCropResize:
		if stage.Crop != nil && (stage.Crop.Width == 0 || stage.Crop.Height == 0) {
			issues = append(issues, fmt.Sprintf("%s (image_crop_resize): crop width and height must be nonzero", prefix))
		}
		if stage.Resize != nil && (stage.Resize.Width == 0 || stage.Resize.Height == 0) {
			issues = append(issues, fmt.Sprintf("%s (image_crop_resize): resize width and height must be nonzero", prefix))
		}

	case StageImageSegment:
		if stage.Center == nil || stage.Peripheral == nil {
			issues = append(issues, fmt.Sprintf("%s (image_segment): center and peripheral are required", prefix))
		}

	case "":
		issues = append(issues, fmt.Sprintf("%s: type is required", prefix))

	default:
		issues = append(issues, fmt.Sprintf("%s: unknown stage type %q", prefix, stage.Type))
	}

	if stage.isImage() && stage.Type != StageIdentity && !sawImage && stage.Image == nil {
		issues = append(issues, fmt.Sprintf("%s (%s): image is required on the first image stage", prefix, stage.Type))
	}

	return issues
}

// isImage reports whether the stage consumes image frames.
func (stage Stage) isImage() bool {
	switch stage.Type {
	case StageImageQuickDiff, StageImageCropResize, StageImageSegment:
		return true
	case StageIdentity:
		return stage.Kind == iovalue.KindImageFrame.String()
	}
	return false
}
