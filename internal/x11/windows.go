package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ClientInfo is the subset of window properties the tracker reads.
type ClientInfo struct {
	ID    xproto.Window
	PID   int
	Class string
	Title string
	X     int
	Y     int
	W     int
	H     int
}

// Clients returns the managed, visible, normal windows on the current
// desktop in _NET_CLIENT_LIST order.
func (c *Connection) Clients() ([]ClientInfo, error) {
	ids, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("read _NET_CLIENT_LIST: %w", err)
	}

	currentDesktop, desktopErr := ewmh.CurrentDesktopGet(c.XUtil)

	out := make([]ClientInfo, 0, len(ids))
	for _, id := range ids {
		if !c.IsNormalWindow(id) || c.isHidden(id) {
			continue
		}
		if desktopErr == nil {
			desktop, err := ewmh.WmDesktopGet(c.XUtil, id)
			if err == nil && desktop != uint(0xFFFFFFFF) && desktop != currentDesktop {
				continue
			}
		}

		x, y, w, h, err := c.FrameGeometry(id)
		if err != nil {
			continue
		}

		info := ClientInfo{ID: id, Title: c.Title(id), X: x, Y: y, W: w, H: h}
		if pid, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			info.PID = int(pid)
		}
		if class, err := icccm.WmClassGet(c.XUtil, id); err == nil {
			info.Class = strings.TrimSpace(class.Class)
		}
		out = append(out, info)
	}
	return out, nil
}

// Title prefers _NET_WM_NAME (UTF-8) and falls back to WM_NAME.
func (c *Connection) Title(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, id); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// FrameGeometry returns the outer geometry of a window including the
// window manager's decorations. Positions written by MoveWindow are read
// back unchanged from here.
func (c *Connection) FrameGeometry(id xproto.Window) (x, y, w, h int, err error) {
	geom, err := xwindow.New(c.XUtil, id).DecorGeometry()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("geometry of window %d: %w", id, err)
	}
	return geom.X(), geom.Y(), geom.Width(), geom.Height(), nil
}

// MoveWindow requests a new frame origin through the window manager.
func (c *Connection) MoveWindow(id xproto.Window, x, y int) error {
	// Windows without _NET_WM_STATE still move fine.
	_ = c.unmaximizeWindow(id)
	return xwindow.New(c.XUtil, id).WMMove(x, y)
}

// ResizeWindow requests a new frame size through the window manager.
func (c *Connection) ResizeWindow(id xproto.Window, width, height int) error {
	_ = c.unmaximizeWindow(id)
	return xwindow.New(c.XUtil, id).WMResize(width, height)
}

// ActivateWindow asks the window manager to focus and raise a window.
func (c *Connection) ActivateWindow(id xproto.Window) error {
	return ewmh.ActiveWindowReq(c.XUtil, id)
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(id xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return err
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, id, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) isHidden(id xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}
