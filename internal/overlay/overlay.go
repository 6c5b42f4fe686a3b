// Package overlay draws slot outlines and the status panel on top of the
// desktop, and the movable placeholder windows used to edit the layout.
package overlay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/slots"
)

const (
	hintMargin     = 12
	hintPaddingX   = 10
	hintPaddingY   = 8
	hintLineHeight = 16
	hintCharWidth  = 7
	hintMinWidth   = 200
)

// Colors are 0xRRGGBB pixel values.
type Colors struct {
	Occupied uint32
	Empty    uint32
	HintText uint32
	HintBg   uint32
}

// ColorsFromConfig parses the "#rrggbb" strings of the config file.
func ColorsFromConfig(c config.OverlayColors) (Colors, error) {
	var out Colors
	var err error
	parse := func(dst *uint32, s string) {
		if err != nil {
			return
		}
		*dst, err = config.ParseColor(s)
	}
	parse(&out.Occupied, c.Occupied)
	parse(&out.Empty, c.Empty)
	parse(&out.HintText, c.HintText)
	parse(&out.HintBg, c.HintBg)
	return out, err
}

// Options configures a Manager.
type Options struct {
	Colors      Colors
	BorderWidth int
	ShowHint    bool
}

// SlotState is what the overlay needs to know about one slot.
type SlotState struct {
	ID       string
	Bounds   platform.Rect
	Occupied bool
}

// StatesFromSlots converts slot bookkeeping into overlay state.
func StatesFromSlots(ss []slots.Slot) []SlotState {
	out := make([]SlotState, len(ss))
	for i := range ss {
		out[i] = SlotState{ID: ss[i].ID, Bounds: ss[i].Bounds(), Occupied: ss[i].Occupied()}
	}
	return out
}

// border is a rectangle outline made of four thin override-redirect
// windows: top, bottom, left, right.
type border struct {
	bars   [4]xproto.Window
	mapped bool
}

type hintPanel struct {
	window   xproto.Window
	gc       xproto.Gcontext
	font     xproto.Font
	created  bool
	mapped   bool
	disabled bool
}

type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Manager owns the outline windows. It is safe for concurrent use.
type Manager struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	opts Options

	mu      sync.Mutex
	borders []*border
	hint    hintPanel
}

// New returns a manager drawing on backend's X connection.
func New(backend any, opts Options) (*Manager, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("overlay needs an X11 backend")
	}
	if opts.BorderWidth < 1 {
		opts.BorderWidth = 1
	}
	return &Manager{xu: accessor.XUtil(), root: accessor.RootWindow(), opts: opts}, nil
}

// Render outlines every slot in its occupancy color and refreshes the
// status panel.
func (m *Manager) Render(states []SlotState, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureBorders(len(states)); err != nil {
		return err
	}
	for i, s := range states {
		color := m.opts.Colors.Empty
		if s.Occupied {
			color = m.opts.Colors.Occupied
		}
		m.showBorder(m.borders[i], s.Bounds, color)
	}

	if m.opts.ShowHint {
		m.renderHint(hintLines(states, enabled), states)
	}
	return nil
}

// Hide unmaps every overlay window without destroying it.
func (m *Manager) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.borders {
		m.hideBorder(b)
	}
	m.hideHint()
}

// Close destroys every overlay window.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn := m.xu.Conn()
	for _, b := range m.borders {
		for _, w := range b.bars {
			if w != 0 {
				xproto.DestroyWindow(conn, w)
			}
		}
	}
	m.borders = nil
	m.destroyHint()
}

func (m *Manager) ensureBorders(count int) error {
	for i := count; i < len(m.borders); i++ {
		m.hideBorder(m.borders[i])
	}
	for len(m.borders) < count {
		b := &border{}
		for i := range b.bars {
			w, err := createOverrideRedirectWindow(m.xu, m.root)
			if err != nil {
				return fmt.Errorf("create overlay window: %w", err)
			}
			b.bars[i] = w
		}
		m.borders = append(m.borders, b)
	}
	return nil
}

func (m *Manager) showBorder(b *border, r platform.Rect, color uint32) {
	for i, bar := range borderBars(r, m.opts.BorderWidth) {
		configureWindow(m.xu, b.bars[i], bar, color)
		xproto.MapWindow(m.xu.Conn(), b.bars[i])
	}
	b.mapped = true
}

func (m *Manager) hideBorder(b *border) {
	if !b.mapped {
		return
	}
	for _, w := range b.bars {
		xproto.UnmapWindow(m.xu.Conn(), w)
	}
	b.mapped = false
}

// borderBars splits the outline of r into top, bottom, left and right bars
// of thickness t. The side bars sit between the top and bottom bars.
func borderBars(r platform.Rect, t int) [4]platform.Rect {
	return [4]platform.Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + r.Height - t, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
		{X: r.X + r.Width - t, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
	}
}

func createOverrideRedirectWindow(xu *xgbutil.XUtil, root xproto.Window) (xproto.Window, error) {
	conn := xu.Conn()
	screen := xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	// Values follow mask bit order: CwBackPixel before CwOverrideRedirect.
	err = xproto.CreateWindowChecked(
		conn, screen.RootDepth, wid, root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// configureWindow places wid at r above its siblings and paints it color.
func configureWindow(xu *xgbutil.XUtil, wid xproto.Window, r platform.Rect, color uint32) {
	conn := xu.Conn()
	w, h := max(r.Width, 1), max(r.Height, 1)
	xproto.ConfigureWindow(conn, wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(w), uint32(h), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
