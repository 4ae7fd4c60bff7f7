// Package harness runs units of work under a wall-clock deadline.
package harness

import (
	"context"
	"fmt"
	"math"
	"time"
)

// killGrace bounds how long the harness waits for a cancelled task to return.
const killGrace = 10 * time.Second

// Task is a unit of work. It must return promptly once ctx is done; external programs it
// starts should go through Command so cancellation kills them.
type Task func(ctx context.Context) (bool, error)

// Result reports how a task ended.
type Result struct {
	// Completed is true iff the task returned without error before the deadline.
	Completed bool
	// Success is the task's own verdict, false unless Completed.
	Success bool
	// Elapsed is wall-clock seconds rounded up, never more than the deadline rounded up.
	Elapsed int
	// Duration is the measured wall-clock time.
	Duration time.Duration
}

// TimedOut reports whether the task was stopped before it could finish.
func (r Result) TimedOut() bool {
	return !r.Completed
}

type taskResult struct {
	success bool
	err     error
}

// RunWithTimeout runs task and waits at most timeout for its single result. The task's
// context is cancelled as soon as the call returns, whether or not the task finished.
func RunWithTimeout(ctx context.Context, timeout time.Duration, task Task) Result {
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan taskResult, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- taskResult{err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		ok, err := task(taskCtx)
		results <- taskResult{success: ok, err: err}
	}()

	select {
	case r := <-results:
		duration := time.Since(start)
		return finished(r, duration)
	case <-taskCtx.Done():
		duration := time.Since(start)
		// a result that raced the deadline still counts
		select {
		case r := <-results:
			if r.err == nil {
				return finished(r, duration)
			}
			return timedOut(duration, timeout)
		default:
		}
		cancel()
		select {
		case <-results:
		case <-time.After(killGrace):
		}
		return timedOut(duration, timeout)
	}
}

func finished(r taskResult, duration time.Duration) Result {
	completed := r.err == nil
	return Result{
		Completed: completed,
		Success:   completed && r.success,
		Elapsed:   ceilSeconds(duration),
		Duration:  duration,
	}
}

func timedOut(duration, timeout time.Duration) Result {
	elapsed := ceilSeconds(duration)
	if limit := ceilSeconds(timeout); elapsed > limit {
		elapsed = limit
	}
	return Result{Elapsed: elapsed, Duration: duration}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
