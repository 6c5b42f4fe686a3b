// Package tables finds the browser windows that show poker tables and keeps
// them seated in the slot grid.
package tables

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tabletile/internal/platform"
)

// Browser selects which application's windows are tracked.
type Browser string

const (
	BrowserChrome   Browser = "chrome"
	BrowserChromium Browser = "chromium"
	BrowserFirefox  Browser = "firefox"
)

// ParseBrowser validates a configured browser name.
func ParseBrowser(s string) (Browser, error) {
	switch b := Browser(strings.ToLower(strings.TrimSpace(s))); b {
	case BrowserChrome, BrowserChromium, BrowserFirefox:
		return b, nil
	default:
		return "", fmt.Errorf("unknown browser %q (want chrome, chromium or firefox)", s)
	}
}

// titleSuffixes are what each browser appends to the active tab title.
func (b Browser) titleSuffixes() []string {
	switch b {
	case BrowserChrome:
		return []string{" - Google Chrome"}
	case BrowserChromium:
		return []string{" - Chromium"}
	case BrowserFirefox:
		return []string{" — Mozilla Firefox", " - Mozilla Firefox"}
	default:
		return nil
	}
}

// ActiveTabTitle strips the browser suffix from a window title. ok is false
// when the title does not belong to this browser.
func (b Browser) ActiveTabTitle(title string) (tab string, ok bool) {
	for _, suffix := range b.titleSuffixes() {
		if idx := strings.Index(title, suffix); idx >= 0 {
			return title[:idx], true
		}
	}
	return "", false
}

// WindowLister enumerates top-level windows.
type WindowLister interface {
	ListWindows() ([]platform.Window, error)
}

// Selector picks the table windows out of everything on screen.
type Selector struct {
	lister  WindowLister
	browser Browser
	search  string
}

// NewSelector returns a selector for browser windows whose active tab
// title contains search. An empty search matches every browser window.
func NewSelector(lister WindowLister, browser Browser, search string) *Selector {
	return &Selector{lister: lister, browser: browser, search: search}
}

// Browser returns the browser being matched.
func (s *Selector) Browser() Browser { return s.browser }

// SearchString returns the tab title filter.
func (s *Selector) SearchString() string { return s.search }

// TargetWindows returns matching windows in enumeration order.
func (s *Selector) TargetWindows() ([]platform.Window, error) {
	all, err := s.lister.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	var out []platform.Window
	for _, w := range all {
		tab, ok := s.browser.ActiveTabTitle(w.Title)
		if !ok {
			continue
		}
		if s.search != "" && !strings.Contains(tab, s.search) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// Activator focuses windows.
type Activator interface {
	WindowLister
	Activate(id platform.WindowID) error
}

// FindTable returns the first window whose title contains title and
// brings it to the front.
func FindTable(ws Activator, title string) (platform.Window, error) {
	if strings.TrimSpace(title) == "" {
		return platform.Window{}, ErrNoTableFound
	}
	all, err := ws.ListWindows()
	if err != nil {
		return platform.Window{}, fmt.Errorf("list windows: %w", err)
	}
	for _, w := range all {
		if strings.Contains(w.Title, title) {
			if err := ws.Activate(w.ID); err != nil {
				return w, fmt.Errorf("activate window %d: %w", w.ID, err)
			}
			return w, nil
		}
	}
	return platform.Window{}, fmt.Errorf("%w: no window title contains %q", ErrNoTableFound, title)
}
