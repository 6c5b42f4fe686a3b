package settings

import (
	"fmt"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/slots"
)

// SlotOrigin is the stored top-left corner of a slot.
type SlotOrigin struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// LayoutSettings holds the table count and the slot origins.
type LayoutSettings struct {
	TableCount int                   `json:"table_count"`
	Slots      map[string]SlotOrigin `json:"table_configurations"`
}

// DefaultLayoutSettings returns a single slot at the screen origin.
func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		TableCount: 1,
		Slots:      map[string]SlotOrigin{SlotID(1): {}},
	}
}

// SlotID returns the key for the nth slot, counting from 1.
func SlotID(n int) string {
	return fmt.Sprintf("slot_%d", n)
}

// SlotIDs returns the configured slot keys in natural order.
func (l LayoutSettings) SlotIDs() []string {
	ids := make([]string, 0, len(l.Slots))
	for id := range l.Slots {
		ids = append(ids, id)
	}
	slots.SortIDs(ids)
	return ids
}

// SetTableCount changes the number of tables. Slots that are added get
// their origin from place, called with the 1-based slot number. Slots
// beyond the new count are dropped.
func (l *LayoutSettings) SetTableCount(n int, place func(n int) SlotOrigin) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTableCount, n)
	}
	if l.Slots == nil {
		l.Slots = make(map[string]SlotOrigin)
	}
	for i := 1; i <= n; i++ {
		id := SlotID(i)
		if _, ok := l.Slots[id]; ok {
			continue
		}
		var origin SlotOrigin
		if place != nil {
			origin = place(i)
		}
		l.Slots[id] = origin
	}
	for id := range l.Slots {
		var i int
		if _, err := fmt.Sscanf(id, "slot_%d", &i); err == nil && i > n {
			delete(l.Slots, id)
		}
	}
	l.TableCount = n
	return nil
}

// SetOrigins replaces the slot origins with the given points, keyed
// slot_1 onward, and sets the table count to match.
func (l *LayoutSettings) SetOrigins(points []platform.Point) error {
	if len(points) < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTableCount, len(points))
	}
	l.Slots = make(map[string]SlotOrigin, len(points))
	for i, p := range points {
		l.Slots[SlotID(i+1)] = SlotOrigin{Top: p.Y, Left: p.X}
	}
	l.TableCount = len(points)
	return nil
}

// BuildSlots turns the layout into empty slots sized to the table. Only
// the first TableCount slots in natural order are built.
func (l LayoutSettings) BuildSlots(table TableSettings) []slots.Slot {
	ids := l.SlotIDs()
	if l.TableCount > 0 && len(ids) > l.TableCount {
		ids = ids[:l.TableCount]
	}
	out := make([]slots.Slot, 0, len(ids))
	for _, id := range ids {
		o := l.Slots[id]
		out = append(out, slots.Slot{
			ID:     id,
			Top:    o.Top,
			Left:   o.Left,
			Width:  table.Width,
			Height: table.Height,
		})
	}
	return out
}

// Validate checks the table count.
func (l LayoutSettings) Validate() error {
	if l.TableCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTableCount, l.TableCount)
	}
	return nil
}
