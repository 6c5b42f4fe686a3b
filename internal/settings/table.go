package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/1broseidon/tabletile/internal/platform"
)

// Button names a clickable control on the table.
type Button string

const (
	ButtonFold      Button = "FOLD"
	ButtonCheckCall Button = "CHECK_CALL"
	ButtonBet       Button = "BET"
	ButtonRaise     Button = "RAISE"
	ButtonAmount    Button = "AMOUNT"
)

// Buttons lists every button in display order.
var Buttons = []Button{ButtonFold, ButtonCheckCall, ButtonBet, ButtonRaise, ButtonAmount}

// ParseButton accepts a button name in any case.
func ParseButton(s string) (Button, error) {
	b := Button(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Buttons {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownButton, s)
}

// Offset is a position relative to a table window's top-left corner. It is
// stored as a two element [x, y] array.
type Offset struct {
	X int
	Y int
}

// Point converts the offset to a platform point.
func (o Offset) Point() platform.Point {
	return platform.Point{X: o.X, Y: o.Y}
}

func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{o.X, o.Y})
}

func (o *Offset) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("button offset: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("button offset: want [x, y], got %d values", len(pair))
	}
	o.X, o.Y = pair[0], pair[1]
	return nil
}

// TableSettings describes the reference table window.
type TableSettings struct {
	Height            int               `json:"table_height"`
	Width             int               `json:"table_width"`
	SearchString      string            `json:"search_string"`
	ButtonCoordinates map[Button]Offset `json:"button_coordinates"`
}

// DefaultTableSettings returns an unconfigured table.
func DefaultTableSettings() TableSettings {
	return TableSettings{ButtonCoordinates: make(map[Button]Offset)}
}

// Size returns the table dimensions as a rect at the origin.
func (t TableSettings) Size() platform.Rect {
	return platform.Rect{Width: t.Width, Height: t.Height}
}

// Configured reports whether a table size has been recorded.
func (t TableSettings) Configured() bool {
	return t.Width > 0 && t.Height > 0
}

// SetButton records the position of button b. abs is an absolute screen
// position and ref the bounds of the table it was grabbed from. The stored
// offset is relative to ref's origin.
func (t *TableSettings) SetButton(b Button, abs platform.Point, ref platform.Rect) error {
	if !ref.Contains(abs) {
		return fmt.Errorf("%w: %s at (%d, %d) not in %s", ErrButtonOutsideWindow, b, abs.X, abs.Y, ref)
	}
	if t.ButtonCoordinates == nil {
		t.ButtonCoordinates = make(map[Button]Offset)
	}
	rel := abs.Sub(ref.Origin())
	t.ButtonCoordinates[b] = Offset{X: rel.X, Y: rel.Y}
	return nil
}

// ButtonOffset returns the recorded offset for b.
func (t TableSettings) ButtonOffset(b Button) (Offset, bool) {
	o, ok := t.ButtonCoordinates[b]
	return o, ok
}

// Validate checks the recorded values are usable.
func (t TableSettings) Validate() error {
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("table size %dx%d must not be negative", t.Width, t.Height)
	}
	for b := range t.ButtonCoordinates {
		if _, err := ParseButton(string(b)); err != nil {
			return err
		}
	}
	return nil
}
