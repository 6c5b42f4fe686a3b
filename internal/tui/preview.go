package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
)

// defaultScreen is assumed when the slots fit inside it; the editor does
// not talk to the X server.
var defaultScreen = platform.Rect{Width: 1920, Height: 1080}

// slotRects returns the slot rectangles in slot order. An ungrabbed table
// is drawn at a nominal quarter-screen size.
func slotRects(d draft) []platform.Rect {
	size := d.Table.Size()
	if !d.Table.Configured() {
		size = platform.Rect{Width: defaultScreen.Width / 4, Height: defaultScreen.Height / 4}
	}
	ids := d.Layout.SlotIDs()
	out := make([]platform.Rect, 0, len(ids))
	for _, id := range ids {
		o := d.Layout.Slots[id]
		out = append(out, platform.Rect{X: o.Left, Y: o.Top, Width: size.Width, Height: size.Height})
	}
	return out
}

// referenceScreen is the smallest rect at the origin that holds the
// default screen and every slot.
func referenceScreen(rects []platform.Rect) platform.Rect {
	screen := defaultScreen
	for _, r := range rects {
		screen.Width = max(screen.Width, r.X+r.Width)
		screen.Height = max(screen.Height, r.Y+r.Height)
	}
	return screen
}

func summarizeLayout(d draft) string {
	n := d.Layout.TableCount
	if !d.Table.Configured() {
		return fmt.Sprintf("%d slots • table size not grabbed", n)
	}
	screen := referenceScreen(slotRects(d))
	overlaps := countOverlaps(slotRects(d))
	s := fmt.Sprintf("%d slots • %d×%d px tables • %d×%d screen", n, d.Table.Width, d.Table.Height, screen.Width, screen.Height)
	if overlaps > 0 {
		s += fmt.Sprintf(" • %d overlapping", overlaps)
	}
	return s
}

func countOverlaps(rects []platform.Rect) int {
	n := 0
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			if a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				n++
			}
		}
	}
	return n
}

// renderASCIIPreview draws the slots scaled onto a width×height canvas,
// numbered by slot. Later slots are drawn over earlier ones.
func renderASCIIPreview(rects []platform.Rect, screen platform.Rect, width, height int) []string {
	if len(rects) == 0 || width < 5 || height < 3 || screen.Width <= 0 || screen.Height <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, rect := range rects {
		drawTile(canvas, rect, i+1, screen, width, height)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, rect platform.Rect, num int, screen platform.Rect, canvasW, canvasH int) {
	// Map rect coordinates to canvas coordinates
	x1 := (rect.X - screen.X) * canvasW / screen.Width
	y1 := (rect.Y - screen.Y) * canvasH / screen.Height
	x2 := (rect.X - screen.X + rect.Width) * canvasW / screen.Width
	y2 := (rect.Y - screen.Y + rect.Height) * canvasH / screen.Height

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			switch {
			case y == y1 || y == y2:
				canvas[y][x] = '─'
			case x == x1 || x == x2:
				canvas[y][x] = '│'
			default:
				canvas[y][x] = ' '
			}
		}
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// slotLabel formats one row of the slot list.
func slotLabel(id string, o settings.SlotOrigin) string {
	return fmt.Sprintf("%-8s left %5d  top %5d", id, o.Left, o.Top)
}
