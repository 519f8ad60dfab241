package service

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressManager creates progress tasks for long-running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Complete()
}

// NewProgressManager returns an interactive progress manager on a terminal,
// and a no-op one otherwise (piped output, JSON mode, CI)
func NewProgressManager(enabled bool) ProgressManager {
	if enabled && term.IsTerminal(int(os.Stderr.Fd())) {
		return &barProgressManager{}
	}
	return NoOpProgressManager{}
}

type barProgressManager struct {
	bars []*progressbar.ProgressBar
}

func (pm *barProgressManager) StartTask(description string, total int) TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(18),
		progressbar.OptionShowCount(),
	)
	pm.bars = append(pm.bars, bar)
	return &barTaskProgress{bar: bar}
}

func (pm *barProgressManager) Close() {
	for _, bar := range pm.bars {
		_ = bar.Finish()
	}
	pm.bars = nil
}

type barTaskProgress struct {
	bar *progressbar.ProgressBar
}

func (tp *barTaskProgress) Increment(n int) { _ = tp.bar.Add(n) }
func (tp *barTaskProgress) Complete()       { _ = tp.bar.Finish() }

// NoOpProgressManager discards all progress updates
type NoOpProgressManager struct{}

// StartTask returns a no-op task progress
func (NoOpProgressManager) StartTask(_ string, _ int) TaskProgress { return NoOpTaskProgress{} }

// Close is a no-op
func (NoOpProgressManager) Close() {}

// NoOpTaskProgress discards all task updates
type NoOpTaskProgress struct{}

// Increment is a no-op
func (NoOpTaskProgress) Increment(_ int) {}

// Complete is a no-op
func (NoOpTaskProgress) Complete() {}
