// Package tiling computes default slot positions for a number of
// fixed-size tables on a monitor.
package tiling

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/tabletile/internal/platform"
)

// Mode selects how tables are distributed across the region.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeHorizontal Mode = "horizontal"
	ModeVertical   Mode = "vertical"
	ModeCascade    Mode = "cascade"
)

// ParseMode validates a mode name. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeHorizontal, ModeVertical, ModeCascade:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported layout mode: %q", s)
	}
}

// Region restricts the grid to part of a monitor.
type Region string

const (
	RegionFull       Region = "full"
	RegionLeftHalf   Region = "left-half"
	RegionRightHalf  Region = "right-half"
	RegionTopHalf    Region = "top-half"
	RegionBottomHalf Region = "bottom-half"
)

// ParseRegion validates a region name. Empty means full.
func ParseRegion(s string) (Region, error) {
	switch r := Region(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RegionFull, nil
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		return r, nil
	default:
		return "", fmt.Errorf("unsupported region: %q", s)
	}
}

// Options tunes SlotOrigins.
type Options struct {
	Mode Mode
	Gap  int
	// CascadeStep is the diagonal offset between tables in cascade mode.
	CascadeStep int
}

// DefaultOptions returns an auto grid with a small gap.
func DefaultOptions() Options {
	return Options{Mode: ModeAuto, Gap: 4, CascadeStep: 32}
}

// CalculateGrid determines the grid dimensions for the given number of tables.
func CalculateGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}

	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))

	return rows, cols
}

// CalculatePositions splits monitor into an even grid of n cells with gaps.
func CalculatePositions(n int, monitor platform.Rect, gap int) []platform.Rect {
	if n <= 0 {
		return nil
	}

	rows, cols := CalculateGrid(n)

	cellWidth := (monitor.Width - (cols+1)*gap) / cols
	cellHeight := (monitor.Height - (rows+1)*gap) / rows

	positions := make([]platform.Rect, n)
	for i := range n {
		row := i / cols
		col := i % cols
		positions[i] = platform.Rect{
			X:      monitor.X + gap + col*(cellWidth+gap),
			Y:      monitor.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}

// SlotOrigins returns the top-left corner for each of n tables of size
// table inside monitor. Tables are centered in their cell when they fit
// and overlap evenly when they do not, so every table stays on screen.
func SlotOrigins(n int, monitor platform.Rect, table platform.Rect, opts Options) ([]platform.Point, error) {
	if n <= 0 {
		return nil, nil
	}
	if table.Width <= 0 || table.Height <= 0 {
		return nil, fmt.Errorf("table size %dx%d is not set", table.Width, table.Height)
	}
	if monitor.Width <= 0 || monitor.Height <= 0 {
		return nil, fmt.Errorf("invalid monitor bounds %s", monitor)
	}

	var rows, cols int
	switch opts.Mode {
	case ModeAuto, "":
		rows, cols = CalculateGrid(n)
	case ModeHorizontal:
		rows, cols = 1, n
	case ModeVertical:
		rows, cols = n, 1
	case ModeCascade:
		return cascade(n, monitor, table, opts.CascadeStep), nil
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", opts.Mode)
	}

	xs := axisOrigins(cols, monitor.X, monitor.Width, table.Width, opts.Gap)
	ys := axisOrigins(rows, monitor.Y, monitor.Height, table.Height, opts.Gap)

	origins := make([]platform.Point, n)
	for i := range n {
		origins[i] = platform.Point{X: xs[i%cols], Y: ys[i/cols]}
	}
	return origins, nil
}

// axisOrigins places count segments of length size along [start, start+span).
func axisOrigins(count, start, span, size, gap int) []int {
	out := make([]int, count)
	cell := (span - (count+1)*gap) / count
	if size <= cell {
		for i := range count {
			out[i] = start + gap + i*(cell+gap) + (cell-size)/2
		}
		return out
	}

	// Not enough room: overlap evenly, pinning the first and last segment
	// to the edges.
	if count == 1 {
		out[0] = start + max(0, (span-size)/2)
		return out
	}
	step := max(0, span-size) / (count - 1)
	for i := range count {
		out[i] = start + i*step
	}
	return out
}

func cascade(n int, monitor, table platform.Rect, step int) []platform.Point {
	if step <= 0 {
		step = 32
	}
	maxX := max(0, monitor.Width-table.Width)
	maxY := max(0, monitor.Height-table.Height)

	origins := make([]platform.Point, n)
	for i := range n {
		dx, dy := i*step, i*step
		if maxX > 0 {
			dx %= maxX + 1
		} else {
			dx = 0
		}
		if maxY > 0 {
			dy %= maxY + 1
		} else {
			dy = 0
		}
		origins[i] = platform.Point{X: monitor.X + dx, Y: monitor.Y + dy}
	}
	return origins
}

// ApplyRegion applies a region to a monitor, returning adjusted bounds.
func ApplyRegion(monitor platform.Rect, region Region) platform.Rect {
	adjusted := monitor

	switch region {
	case RegionLeftHalf:
		adjusted.Width = monitor.Width / 2

	case RegionRightHalf:
		adjusted.X = monitor.X + monitor.Width/2
		adjusted.Width = monitor.Width / 2

	case RegionTopHalf:
		adjusted.Height = monitor.Height / 2

	case RegionBottomHalf:
		adjusted.Y = monitor.Y + monitor.Height/2
		adjusted.Height = monitor.Height / 2
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}
