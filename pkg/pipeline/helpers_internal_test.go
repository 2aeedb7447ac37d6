package pipeline

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// createInputChan pushes 0..total-1, stopping early when ctx is done. When
// cancel is set it is called before pushing offset.
func createInputChan(ctx context.Context, t *testing.T, total, offset int, cancel context.CancelFunc) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			if cancel != nil && i == offset {
				cancel()
			}

			select {
			case <-ctx.Done():
				return
			case inputChan <- i:
			}
		}
	}()

	return inputChan
}

func processOutputChan(t *testing.T, output <-chan int) []int {
	t.Helper()

	res := []int{}

	for out := range output {
		res = append(res, out)
	}

	return res
}
