package workers

import (
	"context"
	"sync"

	"notethumbs/internal/metrics"
)

// Result pairs the output of one job with the position of its input.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Run calls fn for every input on n goroutines and returns the results in
// input order. Inputs not yet started when ctx is cancelled get ctx.Err().
// n below 1 is treated as 1.
func Run[In, Out any](ctx context.Context, n int, inputs []In, fn func(context.Context, In) (Out, error)) []Result[Out] {
	if n < 1 {
		n = 1
	}
	if n > len(inputs) {
		n = max(len(inputs), 1)
	}

	results := make([]Result[Out], len(inputs))
	for i := range results {
		results[i].Index = i
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	metrics.BatchWorkers.Set(float64(n))
	defer metrics.BatchWorkers.Set(0)

	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				metrics.BatchJobsInFlight.Inc()
				results[i].Value, results[i].Err = fn(ctx, inputs[i])
				metrics.BatchJobsInFlight.Dec()
			}
		}()
	}

	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
		}
	}
	close(jobs)

	wg.Wait()
	return results
}
