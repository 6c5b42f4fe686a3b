package hotkeys

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/slots"
)

// fakeInput records pointer steps and answers active window queries.
type fakeInput struct {
	pos       platform.Point
	active    platform.WindowID
	steps     []string
	activated []platform.WindowID
}

func (f *fakeInput) Position() (platform.Point, error) { return f.pos, nil }

func (f *fakeInput) MoveTo(p platform.Point) error {
	f.pos = p
	f.steps = append(f.steps, fmt.Sprintf("move %d,%d", p.X, p.Y))
	return nil
}

func (f *fakeInput) Click(b platform.MouseButton) error {
	f.steps = append(f.steps, "click "+b.String())
	return nil
}

func (f *fakeInput) ButtonHeld(platform.MouseButton) (bool, error) { return false, nil }

func (f *fakeInput) ActiveWindow() (platform.WindowID, error) { return f.active, nil }

func (f *fakeInput) Activate(id platform.WindowID) error {
	f.activated = append(f.activated, id)
	return nil
}

type fakeSlots map[string]slots.Slot

func (f fakeSlots) SlotForWindow(w platform.WindowID) (slots.Slot, bool) {
	for _, s := range f {
		if s.Window == w {
			return s, true
		}
	}
	return slots.Slot{}, false
}

func (f fakeSlots) Slot(id string) (slots.Slot, bool) {
	s, ok := f[id]
	return s, ok
}

func testTable() settings.TableSettings {
	return settings.TableSettings{
		Width:  800,
		Height: 600,
		ButtonCoordinates: map[settings.Button]settings.Offset{
			settings.ButtonFold:   {X: 10, Y: 20},
			settings.ButtonBet:    {X: 30, Y: 40},
			settings.ButtonAmount: {X: 50, Y: 60},
		},
	}
}

func newTestPerformer(in *fakeInput) *Performer {
	locator := fakeSlots{
		"slot_1": {ID: "slot_1", Left: 100, Top: 200, Width: 800, Height: 600, Window: 7},
		"slot_2": {ID: "slot_2", Left: 900, Top: 200, Width: 800, Height: 600},
	}
	p := NewPerformer(PerformerConfig{}, in, in, locator)
	p.SetTable(testTable())
	return p
}

func TestPerformFoldRestoresPointer(t *testing.T) {
	in := &fakeInput{pos: platform.Point{X: 400, Y: 500}, active: 7}
	p := newTestPerformer(in)

	require.NoError(t, p.Perform(context.Background(), ActionFold))

	assert.Equal(t, []string{
		"click left",
		"move 110,220",
		"click left",
		"move 400,500",
	}, in.steps)
}

func TestPerformBetParksOnAmountField(t *testing.T) {
	in := &fakeInput{pos: platform.Point{X: 400, Y: 500}, active: 7}
	p := newTestPerformer(in)

	require.NoError(t, p.Perform(context.Background(), ActionBet))

	assert.Equal(t, []string{
		"click left",
		"move 130,240",
		"click left",
		"move 150,260",
	}, in.steps)
}

func TestPerformWithoutSlotOnlyFocuses(t *testing.T) {
	in := &fakeInput{pos: platform.Point{X: 1, Y: 1}, active: 99}
	p := newTestPerformer(in)

	require.NoError(t, p.Perform(context.Background(), ActionFold))
	assert.Equal(t, []string{"click left"}, in.steps)
}

func TestPerformUnconfiguredButton(t *testing.T) {
	in := &fakeInput{active: 7}
	p := newTestPerformer(in)

	err := p.Perform(context.Background(), ActionRaise)
	assert.ErrorIs(t, err, ErrButtonNotConfigured)
	assert.Empty(t, in.steps)
}

func TestPerformMoveToSlot(t *testing.T) {
	in := &fakeInput{}
	p := newTestPerformer(in)

	require.NoError(t, p.Perform(context.Background(), ActionMoveToSlot1))
	assert.Equal(t, []string{"move 500,500"}, in.steps)
	assert.Equal(t, []platform.WindowID{7}, in.activated)

	require.NoError(t, p.Perform(context.Background(), ActionMoveToSlot2))
	assert.Len(t, in.activated, 1)

	err := p.Perform(context.Background(), ActionMoveToSlot9)
	assert.ErrorIs(t, err, slots.ErrInvalidSlotNum)
}

func TestToggleDisablesOtherActions(t *testing.T) {
	in := &fakeInput{active: 7}
	var mu sync.Mutex
	var toggles []bool
	p := NewPerformer(PerformerConfig{OnToggle: func(on bool) {
		mu.Lock()
		toggles = append(toggles, on)
		mu.Unlock()
	}}, in, in, fakeSlots{})
	p.SetTable(testTable())

	require.NoError(t, p.Perform(context.Background(), ActionToggle))
	assert.False(t, p.Enabled())

	require.NoError(t, p.Perform(context.Background(), ActionFold))
	assert.Empty(t, in.steps)

	require.NoError(t, p.Perform(context.Background(), ActionToggle))
	assert.True(t, p.Enabled())
	assert.Equal(t, []bool{false, true}, toggles)

	assert.False(t, p.SetEnabled(true))
	assert.True(t, p.SetEnabled(false))
}

func TestPerformHonorsCancelledContextBetweenSteps(t *testing.T) {
	in := &fakeInput{active: 7}
	locator := fakeSlots{"slot_1": {ID: "slot_1", Window: 7}}
	p := NewPerformer(PerformerConfig{StepDelay: time.Hour}, in, in, locator)
	p.SetTable(testTable())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Perform(ctx, ActionFold)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"click left"}, in.steps)
}
