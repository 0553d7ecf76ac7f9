package concurrency

import (
	"context"
	"sync"
)

// Task is one unit of work handed to Run.
type Task func(ctx context.Context)

// Run fans tasks out to at most limit goroutines and waits for all of
// them. Tasks not yet started when ctx is done are skipped.
func Run(ctx context.Context, limit int, tasks ...Task) {
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}
		wg.Add(1)
		go func(fn Task) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx)
		}(task)
	}
	wg.Wait()
}
