// Package ipc is the newline-delimited JSON protocol spoken over the
// daemon's unix socket.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing          CommandType = "PING"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandListSlots     CommandType = "LIST_SLOTS"
	CommandPerformAction CommandType = "PERFORM_ACTION"
	CommandToggle        CommandType = "TOGGLE"
	CommandReload        CommandType = "RELOAD"
	CommandArrange       CommandType = "ARRANGE"
	CommandShutdown      CommandType = "SHUTDOWN"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	HotkeysEnabled bool     `json:"hotkeys_enabled"`
	Browser        string   `json:"browser"`
	SearchString   string   `json:"search_string"`
	TableCount     int      `json:"table_count"`
	Tracked        int      `json:"tracked"`
	Seated         int      `json:"seated"`
	Unassigned     []uint32 `json:"unassigned,omitempty"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	PID            int      `json:"pid"`
}

// SlotInfo describes one slot in LIST_SLOTS.
type SlotInfo struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Window uint32 `json:"window,omitempty"`
	Title  string `json:"title,omitempty"`
}

type SlotsData struct {
	Slots []SlotInfo `json:"slots"`
}

type PerformActionPayload struct {
	Action string `json:"action"`
}

// TogglePayload flips hotkeys when Enabled is nil, otherwise sets them.
type TogglePayload struct {
	Enabled *bool `json:"enabled,omitempty"`
}

type ToggleData struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		raw = b
	}
	return &Response{Status: StatusOK, Data: raw}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: StatusError, Error: errMsg}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
