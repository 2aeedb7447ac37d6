package model

import "time"

// PipelineOption hooks into the life of a pipeline.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStepOption
	pipelineSinkOption

	// Finish runs after every stage returned without error.
	Finish() error
}

type pipelineStepOption interface {
	// PrepareStep runs when a root or normal step is added.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepOutput runs everytime something is pushed to the output of the step.
	OnStepOutput(parentStep, step *StepInfo, iterationDuration, computationDuration time.Duration) error
}

type pipelineSinkOption interface {
	// PrepareSink runs when the sink is added.
	PrepareSink(parentStep, step *StepInfo) error
	// OnSinkOutput runs everytime the sink consumed an element.
	OnSinkOutput(parentStep, step *StepInfo, iterationDuration, computationDuration time.Duration) error
	// AfterSink runs once the sink input is drained.
	AfterSink(step *StepInfo, totalDuration time.Duration) error
}
