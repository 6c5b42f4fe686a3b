package palette

import (
	"fmt"

	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/ipc"
)

// ActionItems lists the table actions followed by one MOVE_TO_SLOT row per
// configured slot. Slots with a seated table are highlighted.
func ActionItems(slots []ipc.SlotInfo, hotkeysEnabled bool) []Item {
	items := []Item{{Label: "Table", IsHeader: true}}
	for _, a := range hotkeys.Actions() {
		if _, ok := a.SlotNumber(); ok {
			continue
		}
		label := a.String()
		if a == hotkeys.ActionToggle {
			if hotkeysEnabled {
				label += " (hotkeys on)"
			} else {
				label += " (hotkeys off)"
			}
		}
		items = append(items, Item{Label: label, Action: a.String()})
	}

	if len(slots) == 0 {
		return items
	}
	items = append(items, Item{Label: "Slots", IsHeader: true})
	for i, s := range slots {
		if i >= hotkeys.MaxSlotActions {
			break
		}
		action := hotkeys.MoveToSlot(i + 1).String()
		title := s.Title
		if s.Window == 0 {
			title = "empty"
		}
		items = append(items, Item{
			Label:    fmt.Sprintf("%s  %s", action, title),
			Action:   action,
			Meta:     s.ID,
			IsActive: s.Window != 0,
		})
	}
	return items
}
