package worker

import (
	"context"
	"sync"
)

// pool.go runs jobs on a bounded number of goroutines.

// Pool limits how many submitted jobs run at once
type Pool struct {
	maxWorkers int
	sem        chan struct{}
	wg         sync.WaitGroup
}

// NewPool creates a pool running at most maxWorkers jobs concurrently
func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		sem:        make(chan struct{}, maxWorkers),
	}
}

// Size returns the concurrency bound
func (p *Pool) Size() int {
	return p.maxWorkers
}

// Submit queues a job
func (p *Pool) Submit(job func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		job()
	}()
}

// Wait blocks until every submitted job has returned
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Result pairs an input with what processing it produced
type Result[T any, R any] struct {
	Item  T
	Value R
	Err   error
}

// Process runs fn over items with at most maxWorkers in flight and returns
// the results in input order. Items not yet started when ctx is done get ctx.Err().
// progress, when non-nil, is called after each item with the completed count.
func Process[T any, R any](
	ctx context.Context,
	items []T,
	maxWorkers int,
	fn func(context.Context, T) (R, error),
	progress func(completed, failed, total int),
) []Result[T, R] {
	pool := NewPool(maxWorkers)
	results := make([]Result[T, R], len(items))

	var mu sync.Mutex
	completed, failed := 0, 0

	for i, item := range items {
		i, item := i, item
		pool.Submit(func() {
			var value R
			err := ctx.Err()
			if err == nil {
				value, err = fn(ctx, item)
			}
			results[i] = Result[T, R]{Item: item, Value: value, Err: err}

			mu.Lock()
			completed++
			if err != nil {
				failed++
			}
			if progress != nil {
				progress(completed, failed, len(items))
			}
			mu.Unlock()
		})
	}

	pool.Wait()
	return results
}
