package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is a named unit of work executed by the ParallelExecutor
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutor runs independent tasks concurrently with bounded
// parallelism. Each task owns its data exclusively; the executor shares
// nothing between them.
type ParallelExecutor struct {
	maxConcurrency int
}

// NewParallelExecutor creates an executor sized to the machine
func NewParallelExecutor() *ParallelExecutor {
	return &ParallelExecutor{maxConcurrency: runtime.NumCPU()}
}

// NewParallelExecutorWithLimit creates an executor with an explicit
// concurrency cap; values below 1 fall back to 1
func NewParallelExecutorWithLimit(limit int) *ParallelExecutor {
	if limit < 1 {
		limit = 1
	}
	return &ParallelExecutor{maxConcurrency: limit}
}

// Execute runs all tasks, calling progress once per finished task. Every
// task runs to completion even when others fail; failures are collected
// into an AggregatedError.
func (e *ParallelExecutor) Execute(ctx context.Context, tasks []Task, progress TaskProgress) error {
	if len(tasks) == 0 {
		return nil
	}
	if progress == nil {
		progress = NoOpTaskProgress{}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			err := t.Run(gCtx)
			progress.Increment(1)
			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name, Err: err})
				errMu.Unlock()
			}
			// Errors are collected above so the remaining tasks still run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}
