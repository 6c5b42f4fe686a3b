package tables

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tabletile/internal/platform"
)

// EventType classifies what changed between two polls.
type EventType int

const (
	EventNone EventType = iota
	EventNewWindow
	EventWindowTerminated
	EventWindowMoved
)

func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventNewWindow:
		return "new_window"
	case EventWindowTerminated:
		return "window_terminated"
	case EventWindowMoved:
		return "window_moved"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a single detected transition.
type Event struct {
	Type   EventType
	Window platform.WindowID
}

var (
	// ErrNoTableFound means no window matched the requested table title.
	ErrNoTableFound = errors.New("no table found")
	// ErrMultipleWindowsDetected means more than one window appeared or
	// disappeared within a single poll.
	ErrMultipleWindowsDetected = errors.New("multiple windows detected")
)

// MultipleWindowsError lists the windows seen in a rejected poll.
type MultipleWindowsError struct {
	Type    EventType
	Windows []platform.WindowID
}

func (e *MultipleWindowsError) Error() string {
	return fmt.Sprintf("%v: %d windows in one %s poll %v", ErrMultipleWindowsDetected, len(e.Windows), e.Type, e.Windows)
}

func (e *MultipleWindowsError) Unwrap() error { return ErrMultipleWindowsDetected }
