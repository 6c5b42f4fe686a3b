// Package daemon runs the table tracker, the hotkey worker and the IPC
// surface as one long-lived process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/1broseidon/tabletile/internal/slots"
	"github.com/1broseidon/tabletile/internal/tables"
)

// DefaultMaxPollFailures is how many consecutive failed polls or handles
// end the run.
const DefaultMaxPollFailures = 5

// EventSource is the tracker as seen by the runner.
type EventSource interface {
	Events(ctx context.Context) iter.Seq2[tables.Event, error]
	Handle(ev tables.Event) error
	ArrangeOnStart() error
}

// RunnerConfig holds configuration for the runner.
type RunnerConfig struct {
	MaxPollFailures int
	Logger          *slog.Logger
	// OnEvent is called after each event has been applied.
	OnEvent func(ev tables.Event)
}

// Runner applies every event the tracker detects. Only slot bookkeeping
// errors stop it.
type Runner struct {
	source      EventSource
	maxFailures int
	failures    int
	logger      *slog.Logger
	onEvent     func(tables.Event)
}

func NewRunner(cfg RunnerConfig, source EventSource) *Runner {
	maxFailures := cfg.MaxPollFailures
	if maxFailures <= 0 {
		maxFailures = DefaultMaxPollFailures
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		source:      source,
		maxFailures: maxFailures,
		logger:      logger,
		onEvent:     cfg.OnEvent,
	}
}

// Run consumes events until ctx is cancelled, which returns nil, or a
// bookkeeping error occurs, which is returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started")
	defer r.logger.Info("runner stopped")

	for ev, err := range r.source.Events(ctx) {
		if fatal := r.step(ev, err); fatal != nil {
			return fatal
		}
	}
	return nil
}

// step applies one item of the event sequence. A panic is logged and the
// loop carries on.
func (r *Runner) step(ev tables.Event, pollErr error) (fatal error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("runner panic recovered", "event", ev.Type, "error", p)
			fatal = nil
		}
	}()

	switch {
	case errors.Is(pollErr, tables.ErrMultipleWindowsDetected):
		r.failures = 0
		r.logger.Warn("several windows changed in one poll, re-arranging", "error", pollErr)
		if err := r.source.ArrangeOnStart(); err != nil {
			return fmt.Errorf("re-arrange tables: %w", err)
		}
		r.notify(ev)
		return nil

	case pollErr != nil:
		r.failures++
		r.logger.Warn("poll failed", "error", pollErr, "consecutive", r.failures)
		if r.failures >= r.maxFailures {
			return fmt.Errorf("poll failed %d times in a row: %w", r.failures, pollErr)
		}
		return nil
	}

	if err := r.source.Handle(ev); err != nil {
		if isBookkeepingError(err) {
			return fmt.Errorf("handle %s of window %d: %w", ev.Type, ev.Window, err)
		}
		// The window system refused a query or a move, usually because the
		// window closed after the poll. The next poll reconciles it.
		r.failures++
		r.logger.Warn("handle failed", "event", ev.Type, "window", ev.Window, "error", err, "consecutive", r.failures)
		if r.failures >= r.maxFailures {
			return fmt.Errorf("handle %s of window %d failed %d times in a row: %w", ev.Type, ev.Window, r.failures, err)
		}
		return nil
	}
	r.failures = 0
	r.notify(ev)
	return nil
}

// isBookkeepingError reports whether err means the slot bindings disagree
// with the tracker, which the runner cannot recover from.
func isBookkeepingError(err error) bool {
	return errors.Is(err, slots.ErrInvalidSlotNum) ||
		errors.Is(err, slots.ErrSlotAlreadyOccupied) ||
		errors.Is(err, slots.ErrEmptySlot)
}

func (r *Runner) notify(ev tables.Event) {
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}
