package overlay

import (
	"strings"
	"testing"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/slots"
)

func TestChooseHintPositionAvoidsSeatedTables(t *testing.T) {
	bounds := platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	width, height := 220, 80

	// A table sits in the top-right corner so another corner must win.
	avoid := []platform.Rect{{X: 568, Y: 12, Width: 220, Height: 80}}
	x, y := chooseHintPosition(bounds, avoid, width, height)
	got := platform.Rect{X: x, Y: y, Width: width, Height: height}

	if rectsIntersect(got, avoid[0]) {
		t.Fatalf("hint overlaps avoid rect: got=%+v avoid=%+v", got, avoid[0])
	}
	if got.X < bounds.X || got.Y < bounds.Y {
		t.Fatalf("hint escaped upper bounds: got=%+v bounds=%+v", got, bounds)
	}
	if got.X+got.Width > bounds.X+bounds.Width || got.Y+got.Height > bounds.Y+bounds.Height {
		t.Fatalf("hint escaped lower bounds: got=%+v bounds=%+v", got, bounds)
	}
}

func TestChooseHintPositionPrefersTopRight(t *testing.T) {
	bounds := platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	x, y := chooseHintPosition(bounds, nil, 200, 50)
	if x != 800-hintMargin-200 || y != hintMargin {
		t.Fatalf("expected top-right corner, got (%d,%d)", x, y)
	}
}

func TestChooseHintPositionClampsOversizedHintToBoundsOrigin(t *testing.T) {
	bounds := platform.Rect{X: 100, Y: 200, Width: 140, Height: 90}
	x, y := chooseHintPosition(bounds, nil, 260, 160)

	if x != bounds.X || y != bounds.Y {
		t.Fatalf("expected oversized hint to clamp to bounds origin (%d,%d), got (%d,%d)", bounds.X, bounds.Y, x, y)
	}
}

func TestUnionRect(t *testing.T) {
	if _, ok := unionRect(nil); ok {
		t.Fatalf("expected no union for empty input")
	}
	got, ok := unionRect([]platform.Rect{
		{X: 10, Y: 20, Width: 100, Height: 50},
		{X: 200, Y: 0, Width: 50, Height: 300},
	})
	want := platform.Rect{X: 10, Y: 0, Width: 240, Height: 300}
	if !ok || got != want {
		t.Fatalf("unionRect = %+v, want %+v", got, want)
	}
}

func TestBorderBarsOutlineRect(t *testing.T) {
	bars := borderBars(platform.Rect{X: 100, Y: 50, Width: 400, Height: 300}, 3)

	want := [4]platform.Rect{
		{X: 100, Y: 50, Width: 400, Height: 3},
		{X: 100, Y: 347, Width: 400, Height: 3},
		{X: 100, Y: 53, Width: 3, Height: 294},
		{X: 497, Y: 53, Width: 3, Height: 294},
	}
	if bars != want {
		t.Fatalf("borderBars = %+v, want %+v", bars, want)
	}
}

func TestHintLinesCountSeatedSlots(t *testing.T) {
	lines := hintLines([]SlotState{{ID: "slot_1", Occupied: true}, {ID: "slot_2"}}, false)
	text := strings.Join(lines, "\n")

	for _, want := range []string{"hotkeys  off", "tables   1/2 seated"} {
		if !strings.Contains(text, want) {
			t.Fatalf("hint missing %q; got:\n%s", want, text)
		}
	}
}

func TestHintDimensionsHonorsMinimumWidth(t *testing.T) {
	w, h := hintDimensions([]string{"a", "b"})
	if w != hintMinWidth {
		t.Fatalf("width = %d, want %d", w, hintMinWidth)
	}
	if h != 2*hintLineHeight+2*hintPaddingY {
		t.Fatalf("height = %d", h)
	}
}

func TestStatesFromSlots(t *testing.T) {
	states := StatesFromSlots([]slots.Slot{
		{ID: "slot_1", Left: 10, Top: 20, Width: 300, Height: 200, Window: 5},
		{ID: "slot_2", Left: 310, Top: 20, Width: 300, Height: 200},
	})
	if len(states) != 2 || !states[0].Occupied || states[1].Occupied {
		t.Fatalf("unexpected states: %+v", states)
	}
	if states[0].Bounds != (platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("unexpected bounds: %+v", states[0].Bounds)
	}
}

func TestColorsFromConfig(t *testing.T) {
	colors, err := ColorsFromConfig(config.DefaultConfig().Overlay.Colors)
	if err != nil {
		t.Fatalf("default colors: %v", err)
	}
	if colors.Occupied != 0x27ae60 {
		t.Fatalf("occupied = %#x", colors.Occupied)
	}

	bad := config.DefaultConfig().Overlay.Colors
	bad.HintBg = "navy"
	if _, err := ColorsFromConfig(bad); err == nil {
		t.Fatalf("expected error for named color")
	}
}

func TestPlaceholderTitle(t *testing.T) {
	if got := PlaceholderTitle(3); got != "Table Slot #3" {
		t.Fatalf("PlaceholderTitle(3) = %q", got)
	}
}
