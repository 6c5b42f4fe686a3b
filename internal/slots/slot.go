// Package slots keeps the fixed grid of table positions and which browser
// window occupies each one.
package slots

import (
	"fmt"

	"github.com/1broseidon/tabletile/internal/platform"
)

// Geometry is the window collaborator a slot needs to place its occupant.
// platform.WindowSystem satisfies it.
type Geometry interface {
	WindowBounds(id platform.WindowID) (platform.Rect, error)
	Move(id platform.WindowID, x, y int) error
	Resize(id platform.WindowID, width, height int) error
}

// Slot is a rectangular screen region with at most one bound window.
type Slot struct {
	ID     string
	Top    int
	Left   int
	Width  int
	Height int
	Window platform.WindowID
}

// Occupied reports whether a window is bound.
func (s *Slot) Occupied() bool {
	return s.Window != platform.None
}

// Origin is the slot's top-left corner.
func (s *Slot) Origin() platform.Point {
	return platform.Point{X: s.Left, Y: s.Top}
}

// Bounds returns the slot rectangle.
func (s *Slot) Bounds() platform.Rect {
	return platform.Rect{X: s.Left, Y: s.Top, Width: s.Width, Height: s.Height}
}

// Center is (left + width/2, top + height/2).
func (s *Slot) Center() platform.Point {
	return s.Bounds().Center()
}

// Allocate binds w to the slot.
func (s *Slot) Allocate(w platform.WindowID) error {
	if s.Occupied() {
		return &SlotError{Op: "allocate", SlotID: s.ID, Err: ErrSlotAlreadyOccupied}
	}
	s.Window = w
	return nil
}

// Deallocate clears the binding and returns the window that held the slot.
func (s *Slot) Deallocate() (platform.WindowID, error) {
	if !s.Occupied() {
		return platform.None, &SlotError{Op: "deallocate", SlotID: s.ID, Err: ErrEmptySlot}
	}
	w := s.Window
	s.Window = platform.None
	return w, nil
}

// MoveToAssigned moves the bound window to the slot origin.
func (s *Slot) MoveToAssigned(g Geometry) error {
	if !s.Occupied() {
		return &SlotError{Op: "move", SlotID: s.ID, Err: ErrEmptySlot}
	}
	if err := g.Move(s.Window, s.Left, s.Top); err != nil {
		return fmt.Errorf("move window %d to %s: %w", s.Window, s.ID, err)
	}
	return nil
}

// ResizeWindow sizes the bound window to the slot.
func (s *Slot) ResizeWindow(g Geometry) error {
	if !s.Occupied() {
		return &SlotError{Op: "resize", SlotID: s.ID, Err: ErrEmptySlot}
	}
	if err := g.Resize(s.Window, s.Width, s.Height); err != nil {
		return fmt.Errorf("resize window %d to %s: %w", s.Window, s.ID, err)
	}
	return nil
}

// IsCenterOutside reports whether the center of win lies outside the slot.
func (s *Slot) IsCenterOutside(win platform.Rect) bool {
	return !s.Bounds().Contains(win.Center())
}
