package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// launcher drives any dmenu-style program: items on stdin, selection on
// stdout.
type launcher struct {
	command string
	kind    launcherKind
}

// indexOutput reports whether the launcher prints the row index instead of
// the label.
func (l *launcher) indexOutput() bool {
	return l.kind == kindRofi || l.kind == kindFuzzel
}

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, errors.New("palette: no items to show")
	}

	rows := l.visibleItems(items)
	cmd := exec.Command(l.command, l.buildArgs(prompt, message, rows)...)
	cmd.Stdin = strings.NewReader(l.formatInput(rows))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parseSelection(selection, rows)
}

// visibleItems drops headers for launchers that cannot render them as
// non-selectable rows.
func (l *launcher) visibleItems(items []Item) []Item {
	if l.kind == kindRofi {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.IsHeader {
			out = append(out, it)
		}
	}
	return out
}

func (l *launcher) buildArgs(prompt, message string, items []Item) []string {
	var args []string
	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		for i, it := range items {
			if it.IsActive && !it.IsHeader {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

func (l *launcher) formatInput(items []Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = l.formatItem(it)
	}
	return strings.Join(lines, "\n")
}

func (l *launcher) formatItem(it Item) string {
	label := sanitize(it.Label)
	if l.kind != kindRofi {
		return label
	}
	label = html.EscapeString(label)
	var attrs []string
	if it.IsHeader {
		label = "<b>" + label + "</b>"
		attrs = append(attrs, "nonselectable", "true")
	}
	if it.Meta != "" {
		attrs = append(attrs, "meta", sanitizeField(it.Meta))
	}
	if len(attrs) == 0 {
		return label
	}
	// One NUL, then key/value pairs separated by \x1f.
	return label + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.indexOutput() {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, it := range items {
		if !it.IsHeader && sanitize(it.Label) == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, "\x00", " ")
	s = strings.ReplaceAll(s, "\x1f", " ")
	return sanitize(s)
}

// isCancelExit matches the exit codes launchers use for Escape (1) and
// Ctrl-C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
