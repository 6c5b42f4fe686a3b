package hotkeys

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
)

// Kind says what a binding listens to.
type Kind int

const (
	KindNone Kind = iota
	KindKey
	KindMouse
)

// Binding is a parsed hotkey option.
type Binding struct {
	Option string
	Kind   Kind
	// Key is the keysym name passed to keybind, for example "a" or "F1".
	Key    string
	Button platform.MouseButton
}

var mouseOptions = map[string]platform.MouseButton{
	"Button.right":  platform.ButtonRight,
	"Button.x1":     platform.ButtonX1,
	"Button.x2":     platform.ButtonX2,
	"Button.middle": platform.ButtonMiddle,
}

// Options lists every selectable option: unbound, the mouse buttons, the
// letters and the function keys.
func Options() []string {
	out := []string{settings.Unbound, "Button.right", "Button.x1", "Button.x2", "Button.middle"}
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	for n := 1; n <= 12; n++ {
		out = append(out, "F"+strconv.Itoa(n))
	}
	return out
}

// ParseBinding parses an option string.
func ParseBinding(option string) (Binding, error) {
	if settings.IsUnbound(option) {
		return Binding{Option: settings.Unbound, Kind: KindNone}, nil
	}
	norm := settings.NormalizeOption(option)

	if b, ok := mouseOptions[norm]; ok {
		return Binding{Option: norm, Kind: KindMouse, Button: b}, nil
	}

	if len(norm) == 1 && norm[0] >= 'A' && norm[0] <= 'Z' {
		return Binding{Option: norm, Kind: KindKey, Key: strings.ToLower(norm)}, nil
	}

	if strings.HasPrefix(norm, "F") {
		if n, err := strconv.Atoi(norm[1:]); err == nil && n >= 1 && n <= 12 {
			return Binding{Option: norm, Kind: KindKey, Key: norm}, nil
		}
	}

	return Binding{}, fmt.Errorf("unsupported hotkey %q", option)
}

// Sequence is the string handed to keybind or mousebind.
func (b Binding) Sequence() string {
	switch b.Kind {
	case KindKey:
		return b.Key
	case KindMouse:
		return strconv.Itoa(int(b.Button))
	default:
		return ""
	}
}

// Bindings maps actions to their parsed hotkey.
type Bindings map[Action]Binding

// ParseBindings validates persisted hotkey settings. Unbound actions are
// left out of the result.
func ParseBindings(h settings.HotkeySettings) (Bindings, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Bindings)
	for _, name := range names {
		action, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		b, err := ParseBinding(h[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		if b.Kind == KindNone {
			continue
		}
		if action == ActionToggle && b.Kind != KindKey {
			return nil, fmt.Errorf("%s: only letters and function keys are allowed, got %q", action, b.Option)
		}
		out[action] = b
	}
	return out, nil
}

// Settings converts bindings back to the persisted form, listing every
// action.
func (b Bindings) Settings() settings.HotkeySettings {
	out := DefaultHotkeys()
	for a, binding := range b {
		out[a.String()] = binding.Option
	}
	return out
}

// DefaultHotkeys returns settings with every action unbound.
func DefaultHotkeys() settings.HotkeySettings {
	out := make(settings.HotkeySettings, len(actionNames))
	for _, a := range Actions() {
		out[a.String()] = settings.Unbound
	}
	return out
}
