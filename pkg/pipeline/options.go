package pipeline

import "github.com/askiada/go-transposer/pkg/pipeline/model"

// StepOption configures a step when it is added.
type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets how many goroutines run the step function.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}

// StepKeepOpen leaves closing the output channel to the step function.
func StepKeepOpen[O any]() StepOption[O] {
	return func(s *model.Step[O]) {
		s.KeepOpen = true
	}
}
