package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-transposer/pkg/pipeline/model"
)

func onStepOutput(opts []model.PipelineOption, parent, step *model.StepInfo, iteration, computation time.Duration) error {
	if parent == nil || step == nil {
		return nil
	}

	for _, opt := range opts {
		err := opt.OnStepOutput(parent, step, iteration, computation)
		if err != nil {
			return errors.Wrap(err, "unable to run on step output function")
		}
	}

	return nil
}

func sequentialOneToOne[I, O any](ctx context.Context, goIdx int, opts []model.PipelineOption, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	for {
		startIter := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}

			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}
			endFn := time.Since(startFn)

			// check the context again so running go routines stop adding
			// elements once the pipeline is cancelled
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output.Output <- out:
				err := onStepOutput(opts, input.Details, output.Details, time.Since(startIter)-endFn, endFn)
				if err != nil {
					return err
				}
			}
		}
	}
}

func runOneToOne[I, O any](ctx context.Context, opts []model.PipelineOption, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	concurrent := 1
	if output.Details != nil && output.Details.Concurrent > 1 {
		concurrent = output.Details.Concurrent
	}

	if concurrent == 1 {
		return sequentialOneToOne(ctx, 0, opts, input, output, oneToOneFn)
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	// each consumer stops as soon as one of them fails
	for goIdx := range concurrent {
		errGrp.Go(func() error {
			return sequentialOneToOne(dCtx, goIdx, opts, input, output, oneToOneFn)
		})
	}

	return errGrp.Wait()
}

// AddStepOneToOne adds a step turning each input element into exactly one
// output element.
func AddStepOneToOne[I, O any](pipe *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if input == nil {
		return nil, ErrInputMustBeSet
	}

	output := make(chan O)
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: output,
	}

	for _, opt := range opts {
		opt(step)
	}

	parent := input.Details
	if parent == nil {
		parent = model.StartStep.Details
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareStep(parent, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run before step function")
		}
	}

	errC := make(chan error, 1)
	pipe.errcList.add(newErrorChan(name, errC))

	go func() {
		defer func() {
			close(output)
			close(errC)
		}()

		err := runOneToOne(pipe.ctx, pipe.opts, input, step, oneToOneFn)
		if err != nil {
			errC <- err
		}
	}()

	return step, nil
}
