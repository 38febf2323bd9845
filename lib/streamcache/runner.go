// Copyright 2026 The CortexBridge Authors
// SPDX-License-Identifier: Apache-2.0

package streamcache

import (
	"fmt"
	"time"

	"github.com/cortexbridge/cortexbridge/lib/fault"
	"github.com/cortexbridge/cortexbridge/lib/iovalue"
)

// Runner drives a value through an ordered, type-checked list of
// processors.
type Runner struct {
	stages     []Processor
	inputType  iovalue.Type
	outputType iovalue.Type
}

// NewRunner validates and composes stages. It fails with
// KindConfiguration if the list is empty, contains a nil stage, or any
// stage's output type differs from the next stage's input type.
func NewRunner(stages ...Processor) (*Runner, error) {
	const op = "streamcache.NewRunner"
	if len(stages) == 0 {
		return nil, fault.Configuration(op, "a pipeline needs at least one stage")
	}
	for index, stage := range stages {
		if stage == nil {
			return nil, fault.Configuration(op, "stage %d is nil", index)
		}
	}
	for index := 0; index < len(stages)-1; index++ {
		output := stages[index].OutputType()
		input := stages[index+1].InputType()
		if output != input {
			return nil, fault.Configuration(op,
				"stage %d output type %s does not match stage %d input type %s",
				index, output, index+1, input)
		}
	}
	return &Runner{
		stages:     append([]Processor(nil), stages...),
		inputType:  stages[0].InputType(),
		outputType: stages[len(stages)-1].OutputType(),
	}, nil
}

// InputType returns the first stage's input type.
func (runner *Runner) InputType() iovalue.Type { return runner.inputType }

// OutputType returns the last stage's output type.
func (runner *Runner) OutputType() iovalue.Type { return runner.outputType }

// Len returns the number of stages.
func (runner *Runner) Len() int { return len(runner.stages) }

// Stage returns stage index.
func (runner *Runner) Stage(index int) Processor { return runner.stages[index] }

// LatestOutput returns the last stage's latest output.
func (runner *Runner) LatestOutput() iovalue.Value {
	return runner.stages[len(runner.stages)-1].LatestOutput()
}

// Update feeds value through every stage and returns the final output.
// The first stage error aborts the run; later stages keep their
// previous outputs.
func (runner *Runner) Update(value iovalue.Value, at time.Time) (iovalue.Value, error) {
	if !value.MatchesType(runner.inputType) {
		return iovalue.Value{}, fault.BadParameters("streamcache.Runner.Update",
			"value of type %s does not match pipeline input type %s", value.Type(), runner.inputType)
	}
	current := value
	for index, stage := range runner.stages {
		output, err := stage.Process(current, at)
		if err != nil {
			return iovalue.Value{}, fmt.Errorf("stage %d: %w", index, err)
		}
		current = output
	}
	return current, nil
}
