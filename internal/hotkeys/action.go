// Package hotkeys maps global keys and mouse buttons to table actions and
// performs those actions by driving the pointer.
package hotkeys

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tabletile/internal/settings"
)

// Action is something a hotkey can trigger.
type Action int

const (
	ActionNone Action = iota
	ActionFold
	ActionCheckCall
	ActionBet
	ActionRaise
	ActionToggle
	ActionMoveToSlot1
	ActionMoveToSlot2
	ActionMoveToSlot3
	ActionMoveToSlot4
	ActionMoveToSlot5
	ActionMoveToSlot6
	ActionMoveToSlot7
	ActionMoveToSlot8
	ActionMoveToSlot9
	ActionMoveToSlot10
)

// MaxSlotActions is the number of MOVE_TO_SLOT actions.
const MaxSlotActions = 10

var actionNames = map[Action]string{
	ActionFold:      "FOLD",
	ActionCheckCall: "CHECK_CALL",
	ActionBet:       "BET",
	ActionRaise:     "RAISE",
	ActionToggle:    "ENABLE_DISABLE",
}

func init() {
	for n := 1; n <= MaxSlotActions; n++ {
		actionNames[MoveToSlot(n)] = fmt.Sprintf("MOVE_TO_SLOT_%d", n)
	}
}

// Actions lists every bindable action in display order.
func Actions() []Action {
	out := make([]Action, 0, int(ActionMoveToSlot10))
	for a := ActionFold; a <= ActionMoveToSlot10; a++ {
		out = append(out, a)
	}
	return out
}

// MoveToSlot returns the MOVE_TO_SLOT action for slot n (1-based). It
// returns ActionNone when n is out of range.
func MoveToSlot(n int) Action {
	if n < 1 || n > MaxSlotActions {
		return ActionNone
	}
	return ActionMoveToSlot1 + Action(n-1)
}

// ParseAction accepts an action name in any case.
func ParseAction(s string) (Action, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Valid reports whether a is a bindable action.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// Button returns the table button a click action presses.
func (a Action) Button() (settings.Button, bool) {
	switch a {
	case ActionFold:
		return settings.ButtonFold, true
	case ActionCheckCall:
		return settings.ButtonCheckCall, true
	case ActionBet:
		return settings.ButtonBet, true
	case ActionRaise:
		return settings.ButtonRaise, true
	default:
		return "", false
	}
}

// MovesToAmount reports whether the pointer should end on the amount field
// after the click.
func (a Action) MovesToAmount() bool {
	return a == ActionBet || a == ActionRaise
}

// SlotNumber returns n for MOVE_TO_SLOT_n.
func (a Action) SlotNumber() (int, bool) {
	if a < ActionMoveToSlot1 || a > ActionMoveToSlot10 {
		return 0, false
	}
	return int(a-ActionMoveToSlot1) + 1, true
}
