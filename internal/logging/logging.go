// Package logging builds the slog.Logger shared by the daemon components.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a slog.Logger backed by a charmbracelet logger writing to w.
// Unknown levels fall back to info.
func New(w io.Writer, level string, prefix string) *slog.Logger {
	return slog.New(NewHandler(w, level, prefix))
}

// NewHandler returns the charmbracelet logger itself, which satisfies
// slog.Handler.
func NewHandler(w io.Writer, level string, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(normalizeLevel(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
		Level:           lvl,
	})
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}
