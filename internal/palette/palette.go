// Package palette shows table actions in an external launcher (rofi,
// fuzzel, wofi or dmenu) and returns the one the user picks.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the launcher is closed without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row in the palette.
type Item struct {
	Label    string
	Action   string // action name sent to the daemon
	Meta     string // extra search keywords (rofi only)
	IsHeader bool   // non-selectable section title
	IsActive bool   // highlighted row
}

// Backend shows items and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// NewBackend returns the named launcher. "" and "auto" pick the first one
// installed.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var b *launcher
	switch name {
	case "rofi":
		b = &launcher{command: "rofi", kind: kindRofi}
	case "fuzzel":
		b = &launcher{command: "fuzzel", kind: kindFuzzel}
	case "wofi":
		b = &launcher{command: "wofi", kind: kindWofi}
	case "dmenu":
		b = &launcher{command: "dmenu", kind: kindDmenu}
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
	if _, err := lookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", b.command)
	}
	return b, nil
}
