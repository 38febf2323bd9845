// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinedef

import (
	"strings"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
)

// Build validates the definition and constructs its stages in order.
// Image stages without an explicit input shape take the output shape of
// the preceding stage. The returned chain is not yet checked for type
// compatibility; streamcache.NewRunner does that.
func Build(definition *Definition) ([]streamcache.Processor, error) {
	const op = "pipelinedef.Build"

	if issues := Validate(definition); len(issues) > 0 {
		return nil, fault.Configuration(op, "invalid pipeline: %s", strings.Join(issues, "; "))
	}

	stages := make([]streamcache.Processor, 0, len(definition.Stages))
	var previous imageframe.Properties
	for index, stage := range definition.Stages {
		input := previous
		if stage.Image != nil {
			// Validate already accepted the image properties.
			input, _ = stage.Image.Properties()
		}

		processor, err := buildStage(stage, input)
		if err != nil {
			return nil, fault.Wrap(fault.KindConfiguration, op, err, "stages[%d] (%s)", index, stage.Type)
		}
		stages = append(stages, processor)

		output := processor.OutputType()
		previous = imageframe.Properties{}
		if output.Kind == iovalue.KindImageFrame {
			previous = output.Image
		}
	}
	return stages, nil
}

func buildStage(stage Stage, input imageframe.Properties) (streamcache.Processor, error) {
	switch stage.Type {
	case StageIdentity:
		kind, err := iovalue.ParseKind(stage.Kind)
		if err != nil {
			return nil, err
		}
		valueType := iovalue.Type{Kind: kind}
		if kind == iovalue.KindImageFrame {
			valueType = iovalue.ImageFrameType(input)
		}
		return streamcache.NewIdentity(valueType)

	case StageLinearScale0To1, StageLinearScaleM1To1:
		initial := *stage.Lower
		if stage.Initial != nil {
			initial = *stage.Initial
		}
		if stage.Type == StageLinearScale0To1 {
			return streamcache.NewLinearScaleTo0And1(*stage.Lower, *stage.Upper, initial)
		}
		return streamcache.NewLinearScaleToM1And1(*stage.Lower, *stage.Upper, initial)

	case StageRollingAverage:
		kind, err := iovalue.ParseKind(stage.Kind)
		if err != nil {
			return nil, err
		}
		var initial float32
		if stage.Initial != nil {
			initial = *stage.Initial
		}
		return streamcache.NewRollingAverage(kind, stage.Window, initial)

	case StageImageQuickDiff:
		if input.IsZero() {
			return nil, fault.Configuration("pipelinedef.Build", "no input image shape")
		}
		return streamcache.NewImageQuickDiff(input, stage.Threshold)

	case StageImageCropResize:
		if input.IsZero() {
			return nil, fault.Configuration("pipelinedef.Build", "no input image shape")
		}
		transform := imageframe.CropResize{
			Output:    stage.Resize.resolution(),
			Grayscale: stage.Grayscale,
		}
		if stage.Crop != nil {
			transform.Region = imageframe.Region{
				X: stage.Crop.X, Y: stage.Crop.Y,
				Width: stage.Crop.Width, Height: stage.Crop.Height,
			}
		}
		return streamcache.NewImageTransform(input, transform)

	case StageImageSegment:
		if input.IsZero() {
			return nil, fault.Configuration("pipelinedef.Build", "no input image shape")
		}
		segmenter := imageframe.GridSegmenter{
			Center:     stage.Center.resolution(),
			Peripheral: stage.Peripheral.resolution(),
		}
		return streamcache.NewImageSegmentor(input, segmenter)
	}
	return nil, fault.Internal("pipelinedef.Build", "unhandled stage type %q", stage.Type)
}
