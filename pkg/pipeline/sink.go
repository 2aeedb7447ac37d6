package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-transposer/pkg/pipeline/model"
)

// AddSink adds the last stage of the pipeline. sinkFn is called for every
// element of input; the first error stops the sink.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}

	if input == nil {
		return ErrInputMustBeSet
	}

	step := &model.StepInfo{
		Type:       model.SinkStepType,
		Name:       name,
		Concurrent: 1,
	}

	parent := input.Details
	if parent == nil {
		parent = model.StartStep.Details
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareSink(parent, step)
		if err != nil {
			return errors.Wrap(err, "unable to run before sink function")
		}
	}

	errC := make(chan error, 1)
	pipe.errcList.add(newErrorChan(name, errC))

	go func() {
		defer close(errC)

		err := runSink(pipe, parent, step, input, sinkFn)
		if err != nil {
			errC <- err
		}
	}()

	return nil
}

func runSink[I any](pipe *Pipeline, parent, step *model.StepInfo, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	for {
		startIter := time.Now()
		select {
		case <-pipe.ctx.Done():
			return pipe.ctx.Err()
		case in, ok := <-input.Output:
			if !ok {
				for _, opt := range pipe.opts {
					err := opt.AfterSink(step, time.Since(pipe.startTime))
					if err != nil {
						return errors.Wrap(err, "unable to run after sink function")
					}
				}

				return nil
			}
			endIter := time.Since(startIter)

			startFn := time.Now()
			err := sinkFn(pipe.ctx, in)
			if err != nil {
				return err
			}
			endFn := time.Since(startFn)

			for _, opt := range pipe.opts {
				err := opt.OnSinkOutput(parent, step, endIter, endFn)
				if err != nil {
					return errors.Wrap(err, "unable to run on sink output function")
				}
			}
		}
	}
}
