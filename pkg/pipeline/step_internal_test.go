package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-transposer/pkg/pipeline/model"
)

var concurrencyCases = map[string]struct {
	concurrent int
}{
	"sequential":     {concurrent: 1},
	"sequential v2":  {concurrent: 0},
	"concurrent 2":   {concurrent: 2},
	"concurrent 100": {concurrent: 100},
}

func TestOneToOne(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &model.Step[int]{Output: createInputChan(ctx, t, 10, 0, nil)}
			got := make(chan []int, 1)
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			go func() {
				defer close(output.Output)
				err := runOneToOne(ctx, nil, input, output, func(_ context.Context, i int) (int, error) {
					return i * 2, nil
				})
				assert.NoError(t, err)
			}()

			assert.ElementsMatch(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, <-got)
		})
	}
}

func TestOneToOneCancelInput(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &model.Step[int]{Output: createInputChan(ctx, t, 10, 5, cancel)}
			got := make(chan []int, 1)
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			done := make(chan error, 1)

			go func() {
				defer close(output.Output)
				done <- runOneToOne(ctx, nil, input, output, func(_ context.Context, i int) (int, error) {
					return i, nil
				})
			}()

			assert.LessOrEqual(t, len(<-got), 5)
			// the input closes on cancel, so the step may also end cleanly
			_ = <-done
		})
	}
}

func TestOneToOneError(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := &model.Step[int]{Output: createInputChan(ctx, t, 10, 0, nil)}
			got := make(chan []int, 1)
			output := &model.Step[int]{Output: make(chan int), Details: &model.StepInfo{Concurrent: tc.concurrent}}

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			go func() {
				defer close(output.Output)
				err := runOneToOne(ctx, nil, input, output, func(_ context.Context, i int) (int, error) {
					if i == 5 {
						return 0, assert.AnError
					}

					return i, nil
				})
				assert.ErrorIs(t, err, assert.AnError)
				// unblock the input producer
				cancel()
			}()

			assert.NotContains(t, <-got, 5)
		})
	}
}
