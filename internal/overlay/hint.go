package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tabletile/internal/platform"
)

var fontNames = []string{"fixed", "9x15", "8x13", "6x13"}

// hintLines is the status panel text.
func hintLines(states []SlotState, enabled bool) []string {
	seated := 0
	for _, s := range states {
		if s.Occupied {
			seated++
		}
	}
	status := "off"
	if enabled {
		status = "on"
	}
	return []string{
		"tabletile",
		fmt.Sprintf("hotkeys  %s", status),
		fmt.Sprintf("tables   %d/%d seated", seated, len(states)),
	}
}

// renderHint places the status panel in a corner of the slot area,
// preferring one that does not cover a seated table.
func (m *Manager) renderHint(lines []string, states []SlotState) {
	if !m.ensureHint() {
		return
	}

	all := make([]platform.Rect, 0, len(states))
	var avoid []platform.Rect
	for _, s := range states {
		all = append(all, s.Bounds)
		if s.Occupied {
			avoid = append(avoid, s.Bounds)
		}
	}
	bounds, ok := unionRect(all)
	if !ok {
		screen := m.xu.Screen()
		bounds = platform.Rect{Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)}
	}

	width, height := hintDimensions(lines)
	width = min(width, max(bounds.Width-2*hintMargin, 1))
	height = min(height, max(bounds.Height-2*hintMargin, 1))
	x, y := chooseHintPosition(bounds, avoid, width, height)

	conn := m.xu.Conn()
	configureWindow(m.xu, m.hint.window, platform.Rect{X: x, Y: y, Width: width, Height: height}, m.opts.Colors.HintBg)
	xproto.ChangeGC(conn, m.hint.gc, xproto.GcForeground|xproto.GcBackground,
		[]uint32{m.opts.Colors.HintText, m.opts.Colors.HintBg})
	drawLines(conn, xproto.Drawable(m.hint.window), m.hint.gc, lines)
	xproto.MapWindow(conn, m.hint.window)
	m.hint.mapped = true
}

// ensureHint lazily creates the panel. A server without any of the core
// fonts gets no panel at all.
func (m *Manager) ensureHint() bool {
	if m.hint.disabled {
		return false
	}
	if m.hint.created {
		return true
	}

	win, err := createOverrideRedirectWindow(m.xu, m.root)
	if err != nil {
		m.hint.disabled = true
		return false
	}
	font, gc, err := newTextGC(m.xu, xproto.Drawable(win), m.opts.Colors.HintText, m.opts.Colors.HintBg)
	if err != nil {
		xproto.DestroyWindow(m.xu.Conn(), win)
		m.hint.disabled = true
		return false
	}
	m.hint = hintPanel{window: win, gc: gc, font: font, created: true}
	return true
}

func (m *Manager) hideHint() {
	if !m.hint.mapped {
		return
	}
	xproto.UnmapWindow(m.xu.Conn(), m.hint.window)
	m.hint.mapped = false
}

func (m *Manager) destroyHint() {
	if !m.hint.created {
		return
	}
	conn := m.xu.Conn()
	xproto.FreeGC(conn, m.hint.gc)
	xproto.CloseFont(conn, m.hint.font)
	xproto.DestroyWindow(conn, m.hint.window)
	m.hint = hintPanel{}
}

// newTextGC opens the first available core font and returns a graphics
// context drawing fg on bg with it.
func newTextGC(xu *xgbutil.XUtil, d xproto.Drawable, fg, bg uint32) (xproto.Font, xproto.Gcontext, error) {
	conn := xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, 0, err
	}
	opened := false
	for _, name := range fontNames {
		if err = xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		return 0, 0, fmt.Errorf("no core font available: %w", err)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return 0, 0, err
	}
	err = xproto.CreateGCChecked(conn, gc, d,
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{fg, bg, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return 0, 0, err
	}
	return font, gc, nil
}

// drawLines clears d and writes lines top to bottom.
func drawLines(conn *xgb.Conn, d xproto.Drawable, gc xproto.Gcontext, lines []string) {
	xproto.ClearArea(conn, false, xproto.Window(d), 0, 0, 0, 0)
	baseline := hintPaddingY + hintLineHeight - 4
	for i, line := range lines {
		if line == "" {
			continue
		}
		if len(line) > 255 {
			line = line[:255]
		}
		xproto.ImageText8(conn, byte(len(line)), d, gc,
			int16(hintPaddingX), int16(baseline+i*hintLineHeight), line)
	}
}

func hintDimensions(lines []string) (width, height int) {
	longest := 0
	for _, line := range lines {
		longest = max(longest, len(line))
	}
	width = max(longest*hintCharWidth+2*hintPaddingX, hintMinWidth)
	height = len(lines)*hintLineHeight + 2*hintPaddingY
	return width, height
}

// chooseHintPosition tries the top-right, top-left, bottom-right and
// bottom-left corners of bounds in that order and takes the first one
// that overlaps none of avoid.
func chooseHintPosition(bounds platform.Rect, avoid []platform.Rect, width, height int) (int, int) {
	width, height = max(width, 1), max(height, 1)

	left := bounds.X + hintMargin
	right := max(bounds.X+bounds.Width-hintMargin-width, left)
	top := bounds.Y + hintMargin
	bottom := max(bounds.Y+bounds.Height-hintMargin-height, top)

	corners := []platform.Point{{X: right, Y: top}, {X: left, Y: top}, {X: right, Y: bottom}, {X: left, Y: bottom}}
	for _, c := range corners {
		candidate := platform.Rect{X: c.X, Y: c.Y, Width: width, Height: height}
		free := true
		for _, a := range avoid {
			if rectsIntersect(candidate, a) {
				free = false
				break
			}
		}
		if free {
			return clampHintOrigin(c.X, c.Y, bounds, width, height)
		}
	}
	return clampHintOrigin(corners[0].X, corners[0].Y, bounds, width, height)
}

// clampHintOrigin keeps the panel inside bounds, dropping the margin when
// the panel does not fit with it.
func clampHintOrigin(x, y int, bounds platform.Rect, width, height int) (int, int) {
	clampAxis := func(v, start, span, size int) int {
		lo, hi := start+hintMargin, start+span-hintMargin-size
		if hi < lo {
			lo, hi = start, start+span-size
		}
		hi = max(hi, lo)
		return min(max(v, lo), hi)
	}
	return clampAxis(x, bounds.X, bounds.Width, width), clampAxis(y, bounds.Y, bounds.Height, height)
}

func unionRect(rects []platform.Rect) (platform.Rect, bool) {
	if len(rects) == 0 {
		return platform.Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].X+rects[0].Width, rects[0].Y+rects[0].Height
	for _, r := range rects[1:] {
		minX, minY = min(minX, r.X), min(minY, r.Y)
		maxX, maxY = max(maxX, r.X+r.Width), max(maxY, r.Y+r.Height)
	}
	return platform.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

func rectsIntersect(a, b platform.Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}
