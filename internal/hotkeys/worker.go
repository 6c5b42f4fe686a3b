package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultQueueSize bounds pending actions.
const DefaultQueueSize = 8

// Runner performs one action.
type Runner interface {
	Perform(ctx context.Context, a Action) error
}

// Worker runs actions one at a time on its own goroutine so X event
// callbacks never block.
type Worker struct {
	queue  chan Action
	runner Runner
	logger *slog.Logger
}

// NewWorker returns a worker with room for size pending actions.
func NewWorker(size int, runner Runner, logger *slog.Logger) *Worker {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{queue: make(chan Action, size), runner: runner, logger: logger}
}

// Submit queues a without blocking. It reports false and drops the action
// when the queue is full.
func (w *Worker) Submit(a Action) bool {
	select {
	case w.queue <- a:
		return true
	default:
		w.logger.Warn("action queue full, dropping action", "action", a)
		return false
	}
}

// Run processes actions until ctx is cancelled. An action in progress is
// allowed to finish.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-w.queue:
			w.perform(a)
		}
	}
}

func (w *Worker) perform(a Action) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("action panic recovered", "action", a, "error", fmt.Sprint(r))
		}
	}()

	// Detached from the run context so cancellation does not stop a click
	// sequence half way.
	if err := w.runner.Perform(context.Background(), a); err != nil {
		w.logger.Error("action failed", "action", a, "error", err)
	}
}
