package slots

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/1broseidon/tabletile/internal/platform"
)

// Manager owns the slot collection and the window bindings.
//
// Manager is not safe for concurrent use; the table tracker serializes
// access.
type Manager struct {
	geo   Geometry
	slots map[string]*Slot
	order []string
}

// NewManager builds a manager over the given slots. Bindings in the input
// are discarded.
func NewManager(geo Geometry, slots []Slot) *Manager {
	m := &Manager{geo: geo}
	m.Replace(slots)
	return m
}

// Replace rebuilds the slot collection wholesale.
func (m *Manager) Replace(slots []Slot) {
	m.slots = make(map[string]*Slot, len(slots))
	m.order = make([]string, 0, len(slots))
	for _, s := range slots {
		s.Window = platform.None
		if _, dup := m.slots[s.ID]; !dup {
			m.order = append(m.order, s.ID)
		}
		m.slots[s.ID] = &s
	}
	SortIDs(m.order)
}

// Len returns the number of slots.
func (m *Manager) Len() int { return len(m.order) }

// IDs returns slot IDs in iteration order.
func (m *Manager) IDs() []string {
	return append([]string(nil), m.order...)
}

// Slot returns a copy of the slot with the given ID.
func (m *Manager) Slot(id string) (Slot, bool) {
	s, ok := m.slots[id]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Slots returns copies of all slots in iteration order.
func (m *Manager) Slots() []Slot {
	out := make([]Slot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.slots[id])
	}
	return out
}

// AllocateWindowToSlot binds w to slot id, then sizes and places it. The
// binding is undone when the window cannot be sized or placed.
func (m *Manager) AllocateWindowToSlot(id string, w platform.WindowID) error {
	s, ok := m.slots[id]
	if !ok {
		return &SlotError{Op: "allocate", SlotID: id, Err: ErrInvalidSlotNum}
	}
	if err := s.Allocate(w); err != nil {
		return err
	}
	err := s.ResizeWindow(m.geo)
	if err == nil {
		err = s.MoveToAssigned(m.geo)
	}
	if err != nil {
		s.Window = platform.None
		return err
	}
	return nil
}

// DeallocateWindowFromSlot clears slot id and returns the freed window.
func (m *Manager) DeallocateWindowFromSlot(id string) (platform.WindowID, error) {
	s, ok := m.slots[id]
	if !ok {
		return platform.None, &SlotError{Op: "deallocate", SlotID: id, Err: ErrInvalidSlotNum}
	}
	return s.Deallocate()
}

// AddWindowToEmptySlot puts w into the first empty slot. It does nothing
// when every slot is taken.
func (m *Manager) AddWindowToEmptySlot(w platform.WindowID) error {
	for _, id := range m.order {
		if !m.slots[id].Occupied() {
			return m.AllocateWindowToSlot(id, w)
		}
	}
	return nil
}

// RemoveWindowFromSlot frees the slot holding w, if any.
func (m *Manager) RemoveWindowFromSlot(w platform.WindowID) error {
	id, ok := m.SlotIDOf(w)
	if !ok {
		return nil
	}
	_, err := m.DeallocateWindowFromSlot(id)
	return err
}

// SlotIDOf returns the ID of the slot bound to w.
func (m *Manager) SlotIDOf(w platform.WindowID) (string, bool) {
	if w == platform.None {
		return "", false
	}
	for _, id := range m.order {
		if m.slots[id].Window == w {
			return id, true
		}
	}
	return "", false
}

// SlotOf returns a copy of the slot bound to w.
func (m *Manager) SlotOf(w platform.WindowID) (Slot, bool) {
	id, ok := m.SlotIDOf(w)
	if !ok {
		return Slot{}, false
	}
	return *m.slots[id], true
}

// MoveWindowToAssignedSlot puts w back at the origin of its slot.
func (m *Manager) MoveWindowToAssignedSlot(w platform.WindowID) error {
	id, ok := m.SlotIDOf(w)
	if !ok {
		return fmt.Errorf("window %d has no slot", w)
	}
	return m.slots[id].MoveToAssigned(m.geo)
}

// AllocatedWindows lists bound windows in slot order.
func (m *Manager) AllocatedWindows() []platform.WindowID {
	var out []platform.WindowID
	for _, id := range m.order {
		if s := m.slots[id]; s.Occupied() {
			out = append(out, s.Window)
		}
	}
	return out
}

// Centers maps slot IDs to their center points.
func (m *Manager) Centers() map[string]platform.Point {
	out := make(map[string]platform.Point, len(m.slots))
	for id, s := range m.slots {
		out[id] = s.Center()
	}
	return out
}

// ClosestSlotToWindow returns the slot whose center is nearest to the
// center of w. Ties go to the slot that sorts first. The result is empty
// when there is no candidate.
func (m *Manager) ClosestSlotToWindow(w platform.WindowID, emptyOnly bool) (string, error) {
	bounds, err := m.geo.WindowBounds(w)
	if err != nil {
		return "", fmt.Errorf("bounds of window %d: %w", w, err)
	}
	return m.ClosestSlotToPoint(bounds.Center(), emptyOnly), nil
}

// ClosestSlotToPoint is ClosestSlotToWindow for an arbitrary point.
func (m *Manager) ClosestSlotToPoint(p platform.Point, emptyOnly bool) string {
	best := ""
	bestDist := math.Inf(1)
	for _, id := range m.order {
		s := m.slots[id]
		if emptyOnly && s.Occupied() {
			continue
		}
		if d := Distance(p, s.Center()); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// AssignWindowToClosestSlot moves w to its nearest slot, swapping with the
// occupant when that slot is taken. A window already in its nearest slot
// is put back at the slot origin.
func (m *Manager) AssignWindowToClosestSlot(w platform.WindowID) error {
	closest, err := m.ClosestSlotToWindow(w, false)
	if err != nil || closest == "" {
		return err
	}
	current, hasCurrent := m.SlotIDOf(w)

	if hasCurrent && current == closest {
		return m.slots[closest].MoveToAssigned(m.geo)
	}

	if !m.slots[closest].Occupied() {
		if hasCurrent {
			if _, err := m.DeallocateWindowFromSlot(current); err != nil {
				return err
			}
		}
		return m.AllocateWindowToSlot(closest, w)
	}

	displaced, err := m.DeallocateWindowFromSlot(closest)
	if err != nil {
		return err
	}
	if hasCurrent {
		if _, err := m.DeallocateWindowFromSlot(current); err != nil {
			return err
		}
	}
	if err := m.AllocateWindowToSlot(closest, w); err != nil {
		return err
	}
	if hasCurrent {
		return m.AllocateWindowToSlot(current, displaced)
	}
	return m.AddWindowToEmptySlot(displaced)
}

// AssignWindowToClosestEmptySlot allocates w to the nearest free slot.
func (m *Manager) AssignWindowToClosestEmptySlot(w platform.WindowID) error {
	closest, err := m.ClosestSlotToWindow(w, true)
	if err != nil || closest == "" {
		return err
	}
	return m.AllocateWindowToSlot(closest, w)
}

// Distance is the plane distance between two centers.
func Distance(a, b platform.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// SortIDs orders slot IDs naturally, so "slot_2" precedes "slot_10".
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		pi, ni := splitNumericSuffix(ids[i])
		pj, nj := splitNumericSuffix(ids[j])
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
}

func splitNumericSuffix(id string) (string, int) {
	end := len(id)
	start := strings.LastIndexFunc(id, func(r rune) bool { return !unicode.IsDigit(r) }) + 1
	if start >= end {
		return id, -1
	}
	n, err := strconv.Atoi(id[start:end])
	if err != nil {
		return id, -1
	}
	return id[:start], n
}
