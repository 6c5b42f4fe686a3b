package settings

import (
	"sort"
	"strings"
)

// Unbound is the option value for an action without a hotkey.
const Unbound = "-"

// HotkeySettings maps action names (FOLD, MOVE_TO_SLOT_3, ...) to the
// option bound to them (F1, A, Button.x1, ...).
type HotkeySettings map[string]string

// IsUnbound reports whether option means no hotkey.
func IsUnbound(option string) bool {
	option = strings.TrimSpace(option)
	return option == "" || option == Unbound
}

// NormalizeOption folds case so "a" and "A" compare equal. Mouse button
// names keep their spelling.
func NormalizeOption(option string) string {
	option = strings.TrimSpace(option)
	if strings.HasPrefix(strings.ToLower(option), "button.") {
		return "Button." + strings.ToLower(option[len("button."):])
	}
	return strings.ToUpper(option)
}

// Validate returns a *DuplicateHotkeysError when a bound option is used by
// more than one action.
func (h HotkeySettings) Validate() error {
	byKey := make(map[string][]string)
	for action, option := range h {
		if IsUnbound(option) {
			continue
		}
		key := NormalizeOption(option)
		byKey[key] = append(byKey[key], action)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if actions := byKey[k]; len(actions) > 1 {
			sort.Strings(actions)
			return &DuplicateHotkeysError{Key: k, Actions: actions}
		}
	}
	return nil
}

// Clone returns an independent copy.
func (h HotkeySettings) Clone() HotkeySettings {
	out := make(HotkeySettings, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
