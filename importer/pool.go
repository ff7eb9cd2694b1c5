package importer

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// forEachBounded runs fn over items with at most limit concurrently active
// calls. Submission blocks on the semaphore, giving backpressure instead of
// unbounded spawning. Each item runs in its own goroutine, so a long
// blocking call (chart decoding) inside fn never starves dispatch of the
// remaining items. Results land at the item's index. A canceled context
// stops dispatching further items; in-flight items run to completion.
func forEachBounded[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) R) []R {
	if limit < 1 {
		limit = 1
	}
	sem := semaphore.NewWeighted(int64(limit))
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = fn(ctx, item)
		}(i, item)
	}
	wg.Wait()
	return results
}
