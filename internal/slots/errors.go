package slots

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSlotNum is returned for slot IDs that are not in the layout.
	ErrInvalidSlotNum = errors.New("invalid slot")
	// ErrSlotAlreadyOccupied is returned when allocating into a bound slot.
	ErrSlotAlreadyOccupied = errors.New("slot already occupied")
	// ErrEmptySlot is returned when deallocating a slot with no window.
	ErrEmptySlot = errors.New("slot is empty")
)

// SlotError records the failing operation and slot.
type SlotError struct {
	Op     string
	SlotID string
	Err    error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.SlotID, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }
