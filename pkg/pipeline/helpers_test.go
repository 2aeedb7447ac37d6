package pipeline_test

import (
	"context"
	"testing"
)

func rootFn(total int) func(ctx context.Context, rootChan chan<- int) error {
	return func(ctx context.Context, rootChan chan<- int) error {
		for i := range total {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- i:
			}
		}

		return nil
	}
}

func processOutputChan(t *testing.T, output <-chan int) []int {
	t.Helper()

	res := []int{}

	for out := range output {
		res = append(res, out)
	}

	return res
}
