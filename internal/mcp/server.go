// Package mcp exposes the running daemon to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tabletile/internal/ipc"
)

const (
	ServerName    = "tabletile"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use. ipc.Client
// satisfies it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListSlots() ([]ipc.SlotInfo, error)
	PerformAction(action string) error
	Toggle(enabled *bool) (bool, error)
	Arrange() error
	Reload() error
}

// Server is the MCP server. Every tool forwards to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a server talking to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or ctx is
// done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether hotkeys are enabled, which browser and tab title filter are in use, and how many tables are tracked and seated.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_slots",
		Description: "List every table slot with its screen rectangle and the window seated in it, if any.",
	}, s.handleListSlots)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "perform_action",
		Description: "Queue a table action as if its hotkey was pressed. Click actions apply to the table under the mouse pointer. Fails while hotkeys are disabled.",
	}, s.handlePerformAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_hotkeys",
		Description: "Enable or disable the table hotkeys. While disabled only the toggle hotkey stays grabbed.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_tables",
		Description: "Re-seat every open table into the nearest slot from scratch.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_settings",
		Description: "Re-read the table, layout and hotkey settings files and re-seat the tables.",
	}, s.handleReload)
}
