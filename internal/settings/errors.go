package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrButtonOutsideWindow is returned when a grabbed button coordinate
	// does not fall inside the reference table window.
	ErrButtonOutsideWindow = errors.New("button coordinate is outside the target window")

	// ErrInvalidTableCount is returned for a table count below one.
	ErrInvalidTableCount = errors.New("table count must be at least 1")

	// ErrUnknownButton is returned for a button name that is not recognized.
	ErrUnknownButton = errors.New("unknown button")
)

// DuplicateHotkeysError reports an option bound to more than one action.
type DuplicateHotkeysError struct {
	Key     string
	Actions []string
}

func (e *DuplicateHotkeysError) Error() string {
	return fmt.Sprintf("hotkey %q is assigned to more than one action: %s", e.Key, strings.Join(e.Actions, ", "))
}

// FileError ties a decode failure to the settings file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
