package tables

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/slots"
)

// WindowSource returns the windows in scope for tracking.
type WindowSource interface {
	TargetWindows() ([]platform.Window, error)
}

// ButtonReader reports mouse button state.
type ButtonReader interface {
	ButtonHeld(b platform.MouseButton) (bool, error)
}

// TrackerConfig holds tracker settings.
type TrackerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Tracker follows the lifecycle of table windows and keeps them seated in
// their slots.
//
// Poll and Handle are meant to be called from a single goroutine.
// ArrangeOnStart, InitializeSlots and the read accessors may be called from
// any goroutine. An event polled before a re-arrange is dropped by Handle.
type Tracker struct {
	mu       sync.RWMutex
	source   WindowSource
	geo      slots.Geometry
	buttons  ButtonReader
	slots    *slots.Manager
	layout   []slots.Slot
	tracked  []platform.WindowID
	interval time.Duration
	logger   *slog.Logger

	// generation counts slot rebuilds. pending is the last event Poll
	// returned and pendingGen the generation it was polled in.
	generation uint64
	pending    Event
	pendingGen uint64
	hasPending bool
}

// NewTracker returns a tracker with no slots.
func NewTracker(cfg TrackerConfig, source WindowSource, geo slots.Geometry, buttons ButtonReader) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		source:   source,
		geo:      geo,
		buttons:  buttons,
		slots:    slots.NewManager(geo, nil),
		interval: interval,
		logger:   logger,
	}
}

// SetSource swaps the window source, for example after the search string
// changed.
func (t *Tracker) SetSource(source WindowSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = source
}

// InitializeSlots builds the slot grid from layout origins and the table
// size. Existing bindings are dropped.
func (t *Tracker) InitializeSlots(layout settings.LayoutSettings, table settings.TableSettings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.layout = layout.BuildSlots(table)
	t.slots.Replace(t.layout)
	t.generation++
}

// ArrangeOnStart rebuilds the slots, takes the live windows as the tracked
// set and seats them greedily: each slot in key order gets the nearest
// window not yet seated. Windows beyond the slot count stay tracked but
// unassigned.
func (t *Tracker) ArrangeOnStart() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	live, err := t.source.TargetWindows()
	if err != nil {
		return err
	}

	t.slots.Replace(t.layout)
	t.tracked = windowIDs(live)
	t.generation++

	type candidate struct {
		window platform.WindowID
		dist   float64
	}

	centers := t.slots.Centers()
	assigned := make(map[platform.WindowID]bool, len(live))
	for _, id := range t.slots.IDs() {
		center := centers[id]
		candidates := make([]candidate, 0, len(live))
		for _, w := range live {
			if assigned[w.ID] {
				continue
			}
			candidates = append(candidates, candidate{w.ID, slots.Distance(w.Bounds.Center(), center)})
		}
		if len(candidates) == 0 {
			break
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

		pick := candidates[0].window
		if err := t.slots.AllocateWindowToSlot(id, pick); err != nil {
			return fmt.Errorf("arrange: %w", err)
		}
		assigned[pick] = true
		t.logger.Debug("window arranged", "window", pick, "slot", id)
	}
	return nil
}

// DetectNewWindow reports the single window that appeared since the last
// poll and starts tracking it. More than one new window is an error and
// leaves the tracked set untouched.
func (t *Tracker) DetectNewWindow(live []platform.Window) (platform.WindowID, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detectNew(live)
}

func (t *Tracker) detectNew(live []platform.Window) (platform.WindowID, bool, error) {
	var added []platform.WindowID
	for _, w := range live {
		if !slices.Contains(t.tracked, w.ID) {
			added = append(added, w.ID)
		}
	}
	switch len(added) {
	case 0:
		return platform.None, false, nil
	case 1:
		t.tracked = append(t.tracked, added[0])
		return added[0], true, nil
	default:
		return platform.None, false, &MultipleWindowsError{Type: EventNewWindow, Windows: added}
	}
}

// DetectTerminatedWindow reports the single tracked window that is gone and
// stops tracking it. More than one is an error and leaves the tracked set
// untouched.
func (t *Tracker) DetectTerminatedWindow(live []platform.Window) (platform.WindowID, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detectTerminated(live)
}

func (t *Tracker) detectTerminated(live []platform.Window) (platform.WindowID, bool, error) {
	ids := windowIDs(live)
	var gone []platform.WindowID
	for _, w := range t.tracked {
		if !slices.Contains(ids, w) {
			gone = append(gone, w)
		}
	}
	switch len(gone) {
	case 0:
		return platform.None, false, nil
	case 1:
		t.tracked = slices.DeleteFunc(t.tracked, func(w platform.WindowID) bool { return w == gone[0] })
		return gone[0], true, nil
	default:
		return platform.None, false, &MultipleWindowsError{Type: EventWindowTerminated, Windows: gone}
	}
}

// DetectMovedWindow reports the first seated window whose origin differs
// from its slot origin.
func (t *Tracker) DetectMovedWindow(live []platform.Window) (platform.WindowID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.detectMoved(live)
}

func (t *Tracker) detectMoved(live []platform.Window) (platform.WindowID, bool) {
	bounds := make(map[platform.WindowID]platform.Rect, len(live))
	for _, w := range live {
		bounds[w.ID] = w.Bounds
	}
	for _, s := range t.slots.Slots() {
		if !s.Occupied() {
			continue
		}
		b, ok := bounds[s.Window]
		if !ok {
			continue
		}
		if b.Origin() != s.Origin() {
			return s.Window, true
		}
	}
	return platform.None, false
}

// Poll runs one detection pass. New windows take priority over terminated
// ones, which take priority over moves.
func (t *Tracker) Poll() (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ev, err := t.poll()
	if err == nil && ev.Type != EventNone {
		t.pending, t.pendingGen, t.hasPending = ev, t.generation, true
	}
	return ev, err
}

func (t *Tracker) poll() (Event, error) {
	live, err := t.source.TargetWindows()
	if err != nil {
		return Event{}, err
	}

	if w, ok, err := t.detectNew(live); err != nil || ok {
		return Event{Type: EventNewWindow, Window: w}, err
	}
	if w, ok, err := t.detectTerminated(live); err != nil || ok {
		return Event{Type: EventWindowTerminated, Window: w}, err
	}
	if w, ok := t.detectMoved(live); ok {
		return Event{Type: EventWindowMoved, Window: w}, nil
	}
	return Event{Type: EventNone}, nil
}

// Events polls every interval and yields each detected event or error.
// Quiet polls are not yielded. The sequence ends when ctx is done or the
// consumer stops ranging.
func (t *Tracker) Events(ctx context.Context) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			ev, err := t.Poll()
			if err == nil && ev.Type == EventNone {
				continue
			}
			if !yield(ev, err) {
				return
			}
		}
	}
}

// Handle applies an event to the slot bindings. An event that the slots
// were rebuilt after, or that no longer matches the tracked set, is a
// no-op.
func (t *Tracker) Handle(ev Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hasPending && ev == t.pending {
		t.hasPending = false
		if t.pendingGen != t.generation {
			t.logger.Debug("dropping event polled before re-arrange", "event", ev.Type, "window", ev.Window)
			return nil
		}
	}

	switch ev.Type {
	case EventNone:
		return nil

	case EventNewWindow:
		if !slices.Contains(t.tracked, ev.Window) {
			return nil
		}
		if id, seated := t.slots.SlotIDOf(ev.Window); seated {
			t.logger.Debug("new window already seated", "window", ev.Window, "slot", id)
			return nil
		}
		t.logger.Info("new table window", "window", ev.Window)
		return t.slots.AssignWindowToClosestEmptySlot(ev.Window)

	case EventWindowTerminated:
		if slices.Contains(t.tracked, ev.Window) {
			return nil
		}
		t.logger.Info("table window closed", "window", ev.Window)
		if err := t.slots.RemoveWindowFromSlot(ev.Window); err != nil {
			return err
		}
		if w := t.unallocated(); w != platform.None {
			t.logger.Debug("seating waiting window", "window", w)
			return t.slots.AddWindowToEmptySlot(w)
		}
		return nil

	case EventWindowMoved:
		held, err := t.buttons.ButtonHeld(platform.ButtonLeft)
		if err != nil {
			return fmt.Errorf("read pointer buttons: %w", err)
		}
		if held {
			// Still dragging; the next poll sees the move again.
			return nil
		}
		slot, ok := t.slots.SlotOf(ev.Window)
		if !ok {
			return nil
		}
		bounds, err := t.geo.WindowBounds(ev.Window)
		if err != nil {
			return fmt.Errorf("bounds of window %d: %w", ev.Window, err)
		}
		if slot.IsCenterOutside(bounds) {
			t.logger.Debug("window dropped outside its slot", "window", ev.Window, "slot", slot.ID)
			return t.slots.AssignWindowToClosestSlot(ev.Window)
		}
		return t.slots.MoveWindowToAssignedSlot(ev.Window)

	default:
		return fmt.Errorf("unknown event type %v", ev.Type)
	}
}

// UnallocatedWindow returns the first tracked window without a slot.
func (t *Tracker) UnallocatedWindow() platform.WindowID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.unallocated()
}

func (t *Tracker) unallocated() platform.WindowID {
	for _, w := range t.tracked {
		if _, ok := t.slots.SlotIDOf(w); !ok {
			return w
		}
	}
	return platform.None
}

// SlotForWindow returns the slot holding w.
func (t *Tracker) SlotForWindow(w platform.WindowID) (slots.Slot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots.SlotOf(w)
}

// Slot returns the slot with the given ID.
func (t *Tracker) Slot(id string) (slots.Slot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots.Slot(id)
}

// SlotOrigin returns the top-left corner of slot id.
func (t *Tracker) SlotOrigin(id string) (platform.Point, bool) {
	s, ok := t.Slot(id)
	if !ok {
		return platform.Point{}, false
	}
	return s.Origin(), true
}

// Tracked returns the tracked windows in detection order.
func (t *Tracker) Tracked() []platform.WindowID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.tracked)
}

// Snapshot is a point-in-time copy of tracker state.
type Snapshot struct {
	Slots      []slots.Slot
	Tracked    []platform.WindowID
	Unassigned []platform.WindowID
}

// Snapshot copies the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Slots:   t.slots.Slots(),
		Tracked: slices.Clone(t.tracked),
	}
	for _, w := range t.tracked {
		if _, ok := t.slots.SlotIDOf(w); !ok {
			snap.Unassigned = append(snap.Unassigned, w)
		}
	}
	return snap
}

func windowIDs(ws []platform.Window) []platform.WindowID {
	ids := make([]platform.WindowID, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
	}
	return ids
}
