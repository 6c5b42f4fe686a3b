package platform

import "fmt"

// WindowID is a platform-neutral window identifier. Zero means "no window".
type WindowID uint32

// None is the zero WindowID.
const None WindowID = 0

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
}

// MouseButton identifies a pointer button by its X11 number.
type MouseButton uint8

const (
	ButtonLeft   MouseButton = 1
	ButtonMiddle MouseButton = 2
	ButtonRight  MouseButton = 3
	ButtonX1     MouseButton = 8
	ButtonX2     MouseButton = 9
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	default:
		return fmt.Sprintf("button%d", uint8(b))
	}
}

// WindowSystem abstracts the window operations the table tracker needs.
type WindowSystem interface {
	ListWindows() ([]Window, error)
	WindowBounds(id WindowID) (Rect, error)
	ActiveWindow() (WindowID, error)
	Activate(id WindowID) error
	Move(id WindowID, x, y int) error
	Resize(id WindowID, width, height int) error
}

// Pointer abstracts simulated mouse input.
type Pointer interface {
	Position() (Point, error)
	MoveTo(p Point) error
	Click(button MouseButton) error
	ButtonHeld(button MouseButton) (bool, error)
}

// Displays lists physical monitors.
type Displays interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
}
