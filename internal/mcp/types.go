package mcp

import "github.com/1broseidon/tabletile/internal/ipc"

// NoInput is the input of tools that take no arguments.
type NoInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	HotkeysEnabled bool     `json:"hotkeys_enabled"`
	Browser        string   `json:"browser"`
	SearchString   string   `json:"search_string"`
	TableCount     int      `json:"table_count"`
	Tracked        int      `json:"tracked"`
	Seated         int      `json:"seated"`
	Unassigned     []uint32 `json:"unassigned,omitempty"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
}

// SlotsOutput is the output for the list_slots tool.
type SlotsOutput struct {
	Slots []ipc.SlotInfo `json:"slots"`
}

// PerformActionInput is the input for the perform_action tool.
type PerformActionInput struct {
	Action string `json:"action" jsonschema:"Action name: FOLD, CHECK_CALL, BET, RAISE, ENABLE_DISABLE or MOVE_TO_SLOT_1 to MOVE_TO_SLOT_10"`
}

// QueuedOutput reports an action handed to the daemon.
type QueuedOutput struct {
	Action string `json:"action"`
	Queued bool   `json:"queued"`
}

// ToggleInput is the input for the toggle_hotkeys tool.
type ToggleInput struct {
	Enabled *bool `json:"enabled,omitempty" jsonschema:"Set hotkeys on or off. Omit to flip the current state."`
}

// ToggleOutput is the output for the toggle_hotkeys tool.
type ToggleOutput struct {
	Enabled bool `json:"enabled"`
}

// DoneOutput is the output of tools with no result beyond success.
type DoneOutput struct {
	Done bool `json:"done"`
}
