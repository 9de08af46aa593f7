// Package screening orchestrates the per-document pipeline: ingest the
// sheet, upsert watchlist entities row by row, then score every investor
// category against the document's entities.
package screening

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"
)

// DefaultConcurrency is the fallback worker count for fan-out stages.
const DefaultConcurrency = 8

// Task is one independent unit of work inside a fan-out stage.
type Task func(ctx context.Context) error

// FanoutResult aggregates a fan-out stage after the fan-in barrier.
type FanoutResult struct {
	TotalTasks   int
	SuccessCount int
	FailureCount int
	Errors       []error
}

// RunFanout executes tasks on a bounded worker pool and blocks until every
// task finished. A failing task is recorded and re-surfaced through the
// result; it never cancels siblings already dispatched. That partial-failure
// semantic is intentional: one bad row must not sink the batch.
func RunFanout(ctx context.Context, logger ectologger.Logger, tasks []Task, concurrency int) *FanoutResult {
	result := &FanoutResult{TotalTasks: len(tasks)}
	if len(tasks) == 0 {
		return result
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	taskChan := make(chan Task, len(tasks))
	for _, t := range tasks {
		taskChan <- t
	}
	close(taskChan)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				err := task(ctx)
				mu.Lock()
				if err != nil {
					result.FailureCount++
					result.Errors = append(result.Errors, err)
				} else {
					result.SuccessCount++
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if result.FailureCount > 0 {
		logger.WithContext(ctx).WithFields(map[string]any{
			"total":    result.TotalTasks,
			"failures": result.FailureCount,
		}).Warn("Fan-out stage finished with failures")
	}

	return result
}
