// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinedef

import (
	"strings"
	"testing"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/imageframe"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
	"github.com/cortexbridge/cortexbridge/lib/streamcache"
	"github.com/cortexbridge/cortexbridge/lib/testutil"
)

func float32Pointer(value float32) *float32 { return &value }

func TestParseJSONC(t *testing.T) {
	t.Parallel()

	definition, err := Parse([]byte(`{
		// distance sensor
		"description": "scale then smooth",
		"stages": [
			{"type": "linear_scale_0_1", "lower": 0, "upper": 50},
			{"type": "rolling_average", "kind": "F32Normalized0To1", "window": 2,},
		],
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if definition.Description != "scale then smooth" {
		t.Errorf("Description = %q", definition.Description)
	}
	if len(definition.Stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(definition.Stages))
	}
	first := definition.Stages[0]
	if first.Type != StageLinearScale0To1 || first.Lower == nil || *first.Upper != 50 {
		t.Errorf("stage 0 = %+v", first)
	}
	if definition.Stages[1].Window != 2 {
		t.Errorf("stage 1 window = %d, want 2", definition.Stages[1].Window)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"stages": [{"type": "identity", "kind": "F32", "windwo": 3}]}`))
	if err == nil || !strings.Contains(err.Error(), "windwo") {
		t.Fatalf("Parse error = %v, want unknown field windwo", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "identity.jsonc", `{"stages": [{"type": "identity", "kind": "F32"}]}`)
	definition, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(definition.Stages) != 1 || definition.Stages[0].Type != StageIdentity {
		t.Errorf("stages = %+v", definition.Stages)
	}

	bad := testutil.WriteFile(t, "broken.jsonc", `{"stages": [`)
	if _, err := ReadFile(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("ReadFile(broken) error = %v, want path in message", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		definition Definition
		wantIssue  string
	}{
		{
			name:       "empty",
			definition: Definition{},
			wantIssue:  "at least one stage",
		},
		{
			name:       "missing type",
			definition: Definition{Stages: []Stage{{}}},
			wantIssue:  "stages[0]: type is required",
		},
		{
			name:       "unknown type",
			definition: Definition{Stages: []Stage{{Type: "fourier"}}},
			wantIssue:  `unknown stage type "fourier"`,
		},
		{
			name:       "linear scale without bounds",
			definition: Definition{Stages: []Stage{{Type: StageLinearScale0To1}}},
			wantIssue:  "lower and upper are required",
		},
		{
			name: "linear scale inverted bounds",
			definition: Definition{Stages: []Stage{{
				Type: StageLinearScaleM1To1, Lower: float32Pointer(5), Upper: float32Pointer(5),
			}}},
			wantIssue: "must be below upper",
		},
		{
			name: "linear scale initial outside bounds",
			definition: Definition{Stages: []Stage{{
				Type: StageLinearScale0To1, Lower: float32Pointer(0), Upper: float32Pointer(1), Initial: float32Pointer(2),
			}}},
			wantIssue: "initial 2 is outside",
		},
		{
			name:       "rolling average without window",
			definition: Definition{Stages: []Stage{{Type: StageRollingAverage, Kind: "F32"}}},
			wantIssue:  "window must be positive",
		},
		{
			name:       "rolling average over images",
			definition: Definition{Stages: []Stage{{Type: StageRollingAverage, Kind: "ImageFrame", Window: 2}}},
			wantIssue:  "not a float kind",
		},
		{
			name:       "identity with bad kind",
			definition: Definition{Stages: []Stage{{Type: StageIdentity, Kind: "f64"}}},
			wantIssue:  "stages[0] (identity): kind",
		},
		{
			name:       "first image stage without shape",
			definition: Definition{Stages: []Stage{{Type: StageImageQuickDiff, Threshold: 0.1}}},
			wantIssue:  "image is required on the first image stage",
		},
		{
			name: "bad image layout",
			definition: Definition{Stages: []Stage{{
				Type: StageImageQuickDiff, Image: &ImageSpec{Width: 4, Height: 4, Layout: "cmyk"},
			}}},
			wantIssue: "stages[0].image",
		},
		{
			name: "segment without resolutions",
			definition: Definition{Stages: []Stage{{
				Type: StageImageSegment, Image: &ImageSpec{Width: 6, Height: 6, Layout: "gray"},
			}}},
			wantIssue: "center and peripheral are required",
		},
		{
			name: "second stage index",
			definition: Definition{Stages: []Stage{
				{Type: StageIdentity, Kind: "F32"},
				{Type: StageRollingAverage, Kind: "F32"},
			}},
			wantIssue: "stages[1] (rolling_average)",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			issues := Validate(&test.definition)
			for _, issue := range issues {
				if strings.Contains(issue, test.wantIssue) {
					return
				}
			}
			t.Errorf("Validate() = %q, want an issue containing %q", issues, test.wantIssue)
		})
	}
}

func TestValidateAcceptsChainedImageStages(t *testing.T) {
	t.Parallel()

	definition := Definition{Stages: []Stage{
		{Type: StageImageCropResize, Image: &ImageSpec{Width: 8, Height: 8, Layout: "rgb"}, Resize: &ResolutionSpec{Width: 6, Height: 6}},
		{Type: StageImageSegment, Center: &ResolutionSpec{Width: 2, Height: 2}, Peripheral: &ResolutionSpec{Width: 1, Height: 1}},
	}}
	if issues := Validate(&definition); len(issues) != 0 {
		t.Fatalf("Validate() = %q, want no issues", issues)
	}
}

func TestBuildScalarChain(t *testing.T) {
	t.Parallel()

	definition, err := Parse([]byte(`{"stages": [
		{"type": "linear_scale_0_1", "lower": 0, "upper": 50},
		{"type": "rolling_average", "kind": "F32Normalized0To1", "window": 2},
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stages, err := Build(definition)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	runner, err := streamcache.NewRunner(stages...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if runner.InputType() != iovalue.F32Type || runner.OutputType() != iovalue.F32Normalized0To1Type {
		t.Fatalf("runner types = %s -> %s", runner.InputType(), runner.OutputType())
	}

	input, _ := iovalue.F32(50)
	output, err := runner.Update(input, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := output.Float()
	// The window starts at the linear scale's initial output, 0.
	testutil.RequireNear(t, got, float32(0.5), 1e-6, "rolling average of 0 and 1")
}

func TestBuildThreadsImageShape(t *testing.T) {
	t.Parallel()

	definition := Definition{Stages: []Stage{
		{Type: StageImageCropResize, Image: &ImageSpec{Width: 8, Height: 8, Layout: "rgb"}, Resize: &ResolutionSpec{Width: 6, Height: 6}, Grayscale: true},
		{Type: StageImageQuickDiff, Threshold: 0.05},
		{Type: StageImageSegment, Center: &ResolutionSpec{Width: 2, Height: 2}, Peripheral: &ResolutionSpec{Width: 1, Height: 1}},
	}}
	stages, err := Build(&definition)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	runner, err := streamcache.NewRunner(stages...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	wantDiff := imageframe.Properties{
		Resolution: imageframe.Resolution{Width: 6, Height: 6},
		Layout:     imageframe.GrayScale,
	}
	if got := stages[1].InputType(); got != iovalue.ImageFrameType(wantDiff) {
		t.Errorf("quick diff input = %s, want %s", got, iovalue.ImageFrameType(wantDiff))
	}
	output := runner.OutputType()
	if output.Kind != iovalue.KindSegmentedImageFrame {
		t.Fatalf("output kind = %s, want SegmentedImageFrame", output.Kind)
	}
	if output.Segmented.Center.Resolution != (imageframe.Resolution{Width: 2, Height: 2}) {
		t.Errorf("center resolution = %+v", output.Segmented.Center.Resolution)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		definition Definition
		wantText   string
	}{
		{
			name:       "validation issues",
			definition: Definition{},
			wantText:   "at least one stage",
		},
		{
			name: "crop outside frame",
			definition: Definition{Stages: []Stage{{
				Type:  StageImageCropResize,
				Image: &ImageSpec{Width: 4, Height: 4, Layout: "gray"},
				Crop:  &RegionSpec{X: 2, Y: 2, Width: 4, Height: 4},
			}}},
			wantText: "stages[0] (image_crop_resize)",
		},
		{
			name: "image stage after scalar stage",
			definition: Definition{Stages: []Stage{
				{Type: StageImageCropResize, Image: &ImageSpec{Width: 4, Height: 4, Layout: "gray"}},
				{Type: StageImageSegment, Center: &ResolutionSpec{Width: 1, Height: 1}, Peripheral: &ResolutionSpec{Width: 1, Height: 1}},
				{Type: StageImageQuickDiff},
			}},
			wantText: "stages[2] (image_quick_diff)",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := Build(&test.definition)
			testutil.RequireErrorKind(t, err, fault.KindConfiguration)
			if !strings.Contains(err.Error(), test.wantText) {
				t.Errorf("Build error = %v, want it to contain %q", err, test.wantText)
			}
		})
	}
}
