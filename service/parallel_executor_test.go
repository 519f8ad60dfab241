package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestExecute_RunsAllTasks(t *testing.T) {
	executor := NewParallelExecutorWithLimit(4)

	var mu sync.Mutex
	ran := make(map[string]bool)

	var tasks []Task
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("task-%d", i)
		tasks = append(tasks, Task{
			Name: name,
			Run: func(ctx context.Context) error {
				mu.Lock()
				ran[name] = true
				mu.Unlock()
				return nil
			},
		})
	}

	if err := executor.Execute(context.Background(), tasks, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ran) != 10 {
		t.Errorf("Expected 10 tasks to run, got %d", len(ran))
	}
}

func TestExecute_EmptyTaskList(t *testing.T) {
	executor := NewParallelExecutor()
	if err := executor.Execute(context.Background(), nil, nil); err != nil {
		t.Errorf("Expected nil for an empty task list, got %v", err)
	}
}

func TestExecute_CollectsFailures(t *testing.T) {
	executor := NewParallelExecutorWithLimit(2)
	boom := errors.New("boom")

	var mu sync.Mutex
	completed := 0
	tasks := []Task{
		{Name: "ok-1", Run: func(ctx context.Context) error {
			mu.Lock()
			completed++
			mu.Unlock()
			return nil
		}},
		{Name: "bad", Run: func(ctx context.Context) error {
			return boom
		}},
		{Name: "ok-2", Run: func(ctx context.Context) error {
			mu.Lock()
			completed++
			mu.Unlock()
			return nil
		}},
	}

	err := executor.Execute(context.Background(), tasks, nil)
	if err == nil {
		t.Fatal("Expected an error")
	}

	var aggErr *AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Expected AggregatedError, got %T", err)
	}
	if len(aggErr.Errors) != 1 {
		t.Fatalf("Expected 1 task error, got %d", len(aggErr.Errors))
	}
	if aggErr.Errors[0].TaskName != "bad" {
		t.Errorf("Expected task name %q, got %q", "bad", aggErr.Errors[0].TaskName)
	}
	if !errors.Is(err, boom) {
		t.Error("errors.Is should find the underlying cause")
	}

	// A failing task must not prevent the others from completing
	if completed != 2 {
		t.Errorf("Expected 2 successful tasks, got %d", completed)
	}
}

func TestAggregatedError_MultipleFailures(t *testing.T) {
	err := &AggregatedError{Errors: []TaskError{
		{TaskName: "a", Err: errors.New("first")},
		{TaskName: "b", Err: errors.New("second")},
	}}

	msg := err.Error()
	if !strings.Contains(msg, "2 tasks failed") {
		t.Errorf("Expected failure count in message, got %q", msg)
	}
	if !strings.Contains(msg, "[a] first") || !strings.Contains(msg, "[b] second") {
		t.Errorf("Expected each task error in message, got %q", msg)
	}
}

func TestNewParallelExecutorWithLimit_Floor(t *testing.T) {
	executor := NewParallelExecutorWithLimit(0)
	if executor.maxConcurrency != 1 {
		t.Errorf("Expected concurrency floor of 1, got %d", executor.maxConcurrency)
	}
}
