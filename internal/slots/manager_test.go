package slots

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/platform"
)

type fakeGeometry struct {
	windows map[platform.WindowID]platform.Rect
	moves   int
	moveErr error
}

func newFakeGeometry() *fakeGeometry {
	return &fakeGeometry{windows: make(map[platform.WindowID]platform.Rect)}
}

func (g *fakeGeometry) put(id platform.WindowID, r platform.Rect) {
	g.windows[id] = r
}

func (g *fakeGeometry) WindowBounds(id platform.WindowID) (platform.Rect, error) {
	r, ok := g.windows[id]
	if !ok {
		return platform.Rect{}, errors.New("no such window")
	}
	return r, nil
}

func (g *fakeGeometry) Move(id platform.WindowID, x, y int) error {
	if g.moveErr != nil {
		return g.moveErr
	}
	r := g.windows[id]
	r.X, r.Y = x, y
	g.windows[id] = r
	g.moves++
	return nil
}

func (g *fakeGeometry) Resize(id platform.WindowID, w, h int) error {
	r := g.windows[id]
	r.Width, r.Height = w, h
	g.windows[id] = r
	return nil
}

// centeredSlot returns a 20x20 slot centered on (x, y).
func centeredSlot(id string, x, y int) Slot {
	return Slot{ID: id, Left: x - 10, Top: y - 10, Width: 20, Height: 20}
}

// centeredRect returns a 20x20 rect centered on (x, y).
func centeredRect(x, y int) platform.Rect {
	return platform.Rect{X: x - 10, Y: y - 10, Width: 20, Height: 20}
}

func TestAllocateThenDeallocateReturnsSameWindow(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(7, platform.Rect{X: 500, Y: 500, Width: 300, Height: 200})
	m := NewManager(geo, []Slot{{ID: "slot_1", Left: 10, Top: 20, Width: 640, Height: 480}})

	require.NoError(t, m.AllocateWindowToSlot("slot_1", 7))
	assert.Equal(t, platform.Rect{X: 10, Y: 20, Width: 640, Height: 480}, geo.windows[7])

	w, err := m.DeallocateWindowFromSlot("slot_1")
	require.NoError(t, err)
	assert.Equal(t, platform.WindowID(7), w)

	s, _ := m.Slot("slot_1")
	assert.False(t, s.Occupied())
}

func TestAllocateOccupiedSlotKeepsBinding(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(1, centeredRect(0, 0))
	geo.put(2, centeredRect(0, 0))
	m := NewManager(geo, []Slot{centeredSlot("slot_1", 0, 0)})

	require.NoError(t, m.AllocateWindowToSlot("slot_1", 1))
	err := m.AllocateWindowToSlot("slot_1", 2)

	require.ErrorIs(t, err, ErrSlotAlreadyOccupied)
	s, _ := m.Slot("slot_1")
	assert.Equal(t, platform.WindowID(1), s.Window)
}

func TestAllocateUndoesBindingWhenMoveFails(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(4, centeredRect(0, 0))
	geo.moveErr = errors.New("BadWindow")
	m := NewManager(geo, []Slot{centeredSlot("slot_1", 0, 0)})

	err := m.AllocateWindowToSlot("slot_1", 4)
	require.ErrorContains(t, err, "BadWindow")

	s, _ := m.Slot("slot_1")
	assert.False(t, s.Occupied())
	_, seated := m.SlotIDOf(4)
	assert.False(t, seated)

	geo.moveErr = nil
	require.NoError(t, m.AllocateWindowToSlot("slot_1", 4))
}

func TestDeallocateErrors(t *testing.T) {
	m := NewManager(newFakeGeometry(), []Slot{centeredSlot("slot_1", 0, 0)})

	_, err := m.DeallocateWindowFromSlot("slot_1")
	assert.ErrorIs(t, err, ErrEmptySlot)

	_, err = m.DeallocateWindowFromSlot("slot_9")
	assert.ErrorIs(t, err, ErrInvalidSlotNum)

	err = m.AllocateWindowToSlot("slot_9", 3)
	assert.ErrorIs(t, err, ErrInvalidSlotNum)

	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "slot_9", slotErr.SlotID)
}

func TestClosestSlotToWindowMinimizesDistance(t *testing.T) {
	geo := newFakeGeometry()
	m := NewManager(geo, []Slot{
		centeredSlot("slot_1", 0, 0),
		centeredSlot("slot_2", 100, 0),
		centeredSlot("slot_3", 200, 0),
	})

	geo.put(1, centeredRect(5, 0))
	geo.put(2, centeredRect(95, 0))
	geo.put(3, centeredRect(205, 0))

	for w, want := range map[platform.WindowID]string{1: "slot_1", 2: "slot_2", 3: "slot_3"} {
		got, err := m.ClosestSlotToWindow(w, false)
		require.NoError(t, err)
		assert.Equal(t, want, got, "window %d", w)
	}
}

func TestClosestSlotTieGoesToLowestKey(t *testing.T) {
	geo := newFakeGeometry()
	m := NewManager(geo, []Slot{
		centeredSlot("slot_10", 100, 0),
		centeredSlot("slot_2", 0, 0),
	})
	geo.put(1, centeredRect(50, 0))

	got, err := m.ClosestSlotToWindow(1, true)
	require.NoError(t, err)
	assert.Equal(t, "slot_2", got)
}

func TestClosestEmptySlotSkipsOccupied(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(1, centeredRect(0, 0))
	geo.put(2, centeredRect(10, 0))
	m := NewManager(geo, []Slot{
		centeredSlot("slot_1", 0, 0),
		centeredSlot("slot_2", 300, 0),
	})
	require.NoError(t, m.AllocateWindowToSlot("slot_1", 1))

	require.NoError(t, m.AssignWindowToClosestEmptySlot(2))
	id, ok := m.SlotIDOf(2)
	require.True(t, ok)
	assert.Equal(t, "slot_2", id)
}

func TestClosestSlotWithNoCandidates(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(1, centeredRect(0, 0))
	geo.put(2, centeredRect(0, 0))
	m := NewManager(geo, []Slot{centeredSlot("slot_1", 0, 0)})
	require.NoError(t, m.AllocateWindowToSlot("slot_1", 1))

	got, err := m.ClosestSlotToWindow(2, true)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, m.AssignWindowToClosestEmptySlot(2))
	_, ok := m.SlotIDOf(2)
	assert.False(t, ok)
}

func TestAssignWindowToClosestSlotSwapsOccupants(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(1, centeredRect(0, 0))
	geo.put(2, centeredRect(100, 0))
	m := NewManager(geo, []Slot{
		centeredSlot("slot_1", 0, 0),
		centeredSlot("slot_2", 100, 0),
	})
	require.NoError(t, m.AllocateWindowToSlot("slot_1", 1))
	require.NoError(t, m.AllocateWindowToSlot("slot_2", 2))

	// Drag window 1 over slot 2.
	geo.put(1, centeredRect(98, 3))
	require.NoError(t, m.AssignWindowToClosestSlot(1))

	s1, _ := m.Slot("slot_1")
	s2, _ := m.Slot("slot_2")
	assert.Equal(t, platform.WindowID(2), s1.Window)
	assert.Equal(t, platform.WindowID(1), s2.Window)
	assert.Equal(t, platform.Point{X: 90, Y: -10}, geo.windows[1].Origin())
	assert.Equal(t, platform.Point{X: -10, Y: -10}, geo.windows[2].Origin())
}

func TestAssignWindowToClosestSlotMovesIntoEmptySlot(t *testing.T) {
	geo := newFakeGeometry()
	geo.put(1, centeredRect(0, 0))
	m := NewManager(geo, []Slot{
		centeredSlot("slot_1", 0, 0),
		centeredSlot("slot_2", 100, 0),
	})
	require.NoError(t, m.AllocateWindowToSlot("slot_1", 1))

	geo.put(1, centeredRect(90, 0))
	require.NoError(t, m.AssignWindowToClosestSlot(1))

	s1, _ := m.Slot("slot_1")
	assert.False(t, s1.Occupied())
	id, _ := m.SlotIDOf(1)
	assert.Equal(t, "slot_2", id)
}

func TestAddAndRemoveWindow(t *testing.T) {
	geo := newFakeGeometry()
	for w := platform.WindowID(1); w <= 3; w++ {
		geo.put(w, centeredRect(0, 0))
	}
	m := NewManager(geo, []Slot{
		centeredSlot("slot_2", 100, 0),
		centeredSlot("slot_1", 0, 0),
	})

	require.NoError(t, m.AddWindowToEmptySlot(1))
	require.NoError(t, m.AddWindowToEmptySlot(2))
	require.NoError(t, m.AddWindowToEmptySlot(3))

	assert.Equal(t, []platform.WindowID{1, 2}, m.AllocatedWindows())
	id, _ := m.SlotIDOf(1)
	assert.Equal(t, "slot_1", id)

	require.NoError(t, m.RemoveWindowFromSlot(1))
	require.NoError(t, m.RemoveWindowFromSlot(42))
	assert.Equal(t, []platform.WindowID{2}, m.AllocatedWindows())
}

func TestIsCenterOutside(t *testing.T) {
	s := Slot{ID: "slot_1", Left: 0, Top: 0, Width: 100, Height: 100}

	assert.False(t, s.IsCenterOutside(platform.Rect{X: 20, Y: 20, Width: 100, Height: 100}))
	assert.True(t, s.IsCenterOutside(platform.Rect{X: 60, Y: 0, Width: 100, Height: 100}))
}

func TestSortIDsNatural(t *testing.T) {
	ids := []string{"slot_10", "slot_2", "slot_1", "main"}
	SortIDs(ids)
	assert.Equal(t, []string{"main", "slot_1", "slot_2", "slot_10"}, ids)
}
