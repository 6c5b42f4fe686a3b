//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/tabletile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the WindowSystem, Pointer
// and Displays interfaces.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ WindowSystem = (*LinuxBackend)(nil)
	_ Pointer      = (*LinuxBackend)(nil)
	_ Displays     = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop makes a running EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ListWindows returns normal windows on the current desktop.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.Clients()
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, Window{
			ID:     WindowID(c.ID),
			PID:    c.PID,
			AppID:  c.Class,
			Title:  c.Title,
			Bounds: Rect{X: c.X, Y: c.Y, Width: c.W, Height: c.H},
		})
	}
	return windows, nil
}

// WindowBounds returns the frame geometry of a window.
func (b *LinuxBackend) WindowBounds(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.FrameGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return None, err
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return None, err
	}
	return WindowID(wid), nil
}

// Activate focuses and raises a window.
func (b *LinuxBackend) Activate(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ActivateWindow(xproto.Window(id))
}

// Move sets a window's frame origin.
func (b *LinuxBackend) Move(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(id), x, y)
}

// Resize sets a window's frame size.
func (b *LinuxBackend) Resize(id WindowID, width, height int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(xproto.Window(id), width, height)
}

// Position returns the pointer position.
func (b *LinuxBackend) Position() (Point, error) {
	conn, err := b.connection()
	if err != nil {
		return Point{}, err
	}
	st, err := conn.QueryPointer()
	if err != nil {
		return Point{}, err
	}
	return Point{X: st.X, Y: st.Y}, nil
}

// MoveTo warps the pointer.
func (b *LinuxBackend) MoveTo(p Point) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WarpPointer(p.X, p.Y)
}

// Click presses and releases a button at the current pointer position.
func (b *LinuxBackend) Click(button MouseButton) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FakeClick(byte(button))
}

// ButtonHeld reports whether a button is currently pressed.
func (b *LinuxBackend) ButtonHeld(button MouseButton) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	mask := x11.ButtonMask(byte(button))
	if mask == 0 {
		return false, fmt.Errorf("button state unavailable for %s", button)
	}
	st, err := conn.QueryPointer()
	if err != nil {
		return false, err
	}
	return st.Mask&mask != 0, nil
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// ActiveDisplay returns the display under the pointer, minus panels.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}
	m, err := conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*m), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
	}
}
