// Package worker bounds the concurrency of batched external calls.
package worker

import (
	"context"
	"sync"
)

// TaskResult holds one task's outcome. Tasks are independent: a failed
// task never cancels its siblings, and every task runs to completion.
type TaskResult[R any] struct {
	Value R
	Err   error
}

// RunLimited executes fn once per input with at most limit tasks in flight
// at any instant. Results are returned in input order after all tasks have
// settled, so callers merge on a single control flow and never share a
// mutable accumulator across goroutines.
func RunLimited[T, R any](ctx context.Context, inputs []T, limit int, fn func(context.Context, T) (R, error)) []TaskResult[R] {
	if len(inputs) == 0 {
		return []TaskResult[R]{}
	}
	if limit <= 0 {
		limit = 1
	}

	results := make([]TaskResult[R], len(inputs))
	semaphore := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, in T) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx].Err = ctx.Err()
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx].Value, results[idx].Err = fn(ctx, in)
		}(i, input)
	}

	wg.Wait()
	return results
}

// Chunk partitions items into fixed-size batches. Batching is exhaustive
// and non-overlapping: concatenating the batches yields the original
// ordered input. The last batch may be smaller.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
