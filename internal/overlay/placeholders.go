package overlay

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tabletile/internal/platform"
)

const (
	placeholderBg   = 0x2c3e50
	placeholderText = 0xecf0f1
)

// PlaceholderTitle is the window title of the n-th placeholder (1-based).
func PlaceholderTitle(n int) string {
	return fmt.Sprintf("Table Slot #%d", n)
}

type placeholder struct {
	win   *xwindow.Window
	gc    xproto.Gcontext
	font  xproto.Font
	title string
}

// Placeholders are ordinary managed windows, one per slot, that the user
// drags into place. Their frame positions become the new slot origins.
type Placeholders struct {
	xu    *xgbutil.XUtil
	items []*placeholder
}

// OpenPlaceholders maps one placeholder of the table's size at each
// origin. Events are delivered by the X event loop, which the caller runs.
func OpenPlaceholders(backend any, origins []platform.Point, size platform.Rect) (*Placeholders, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("placeholders need an X11 backend")
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("table size %dx%d is not set", size.Width, size.Height)
	}

	p := &Placeholders{xu: accessor.XUtil()}
	for i, origin := range origins {
		item, err := p.open(accessor.RootWindow(), i+1, platform.Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open %s: %w", PlaceholderTitle(i+1), err)
		}
		p.items = append(p.items, item)
	}
	return p, nil
}

func (p *Placeholders) open(root xproto.Window, n int, r platform.Rect) (*placeholder, error) {
	win, err := xwindow.Generate(p.xu)
	if err != nil {
		return nil, err
	}
	if err := win.CreateChecked(root, r.X, r.Y, r.Width, r.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		placeholderBg, xproto.EventMaskExposure|xproto.EventMaskStructureNotify); err != nil {
		return nil, err
	}

	item := &placeholder{win: win, title: PlaceholderTitle(n)}
	_ = ewmh.WmNameSet(p.xu, win.Id, item.title)
	_ = icccm.WmNameSet(p.xu, win.Id, item.title)
	// USPosition asks the window manager to honor our placement.
	_ = icccm.WmNormalHintsSet(p.xu, win.Id, &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      r.X,
		Y:      r.Y,
		Width:  uint(r.Width),
		Height: uint(r.Height),
	})

	font, gc, err := newTextGC(p.xu, xproto.Drawable(win.Id), placeholderText, placeholderBg)
	if err == nil {
		item.font, item.gc = font, gc
		xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
			if ev.Count == 0 {
				drawLines(xu.Conn(), xproto.Drawable(item.win.Id), item.gc, []string{item.title, "drag into place"})
			}
		}).Connect(p.xu, win.Id)
	}

	win.Map()
	return item, nil
}

// Origins returns the top-left corner of each placeholder's frame, in slot
// order.
func (p *Placeholders) Origins() ([]platform.Point, error) {
	out := make([]platform.Point, len(p.items))
	for i, item := range p.items {
		geom, err := item.win.DecorGeometry()
		if err != nil {
			return nil, fmt.Errorf("geometry of %s: %w", item.title, err)
		}
		out[i] = platform.Point{X: geom.X(), Y: geom.Y()}
	}
	return out, nil
}

// Len returns the number of open placeholders.
func (p *Placeholders) Len() int { return len(p.items) }

// Close destroys every placeholder window.
func (p *Placeholders) Close() {
	conn := p.xu.Conn()
	for _, item := range p.items {
		xevent.Detach(p.xu, item.win.Id)
		if item.gc != 0 {
			xproto.FreeGC(conn, item.gc)
			xproto.CloseFont(conn, item.font)
		}
		item.win.Destroy()
	}
	p.items = nil
}
