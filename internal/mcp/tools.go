package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		HotkeysEnabled: st.HotkeysEnabled,
		Browser:        st.Browser,
		SearchString:   st.SearchString,
		TableCount:     st.TableCount,
		Tracked:        st.Tracked,
		Seated:         st.Seated,
		Unassigned:     st.Unassigned,
		UptimeSeconds:  st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListSlots(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, SlotsOutput, error) {
	slots, err := s.daemon.ListSlots()
	if err != nil {
		return nil, SlotsOutput{}, err
	}
	return nil, SlotsOutput{Slots: slots}, nil
}

func (s *Server) handlePerformAction(_ context.Context, _ *mcpsdk.CallToolRequest, args PerformActionInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	action := strings.ToUpper(strings.TrimSpace(args.Action))
	if action == "" {
		return nil, QueuedOutput{}, fmt.Errorf("action is required")
	}
	if err := s.daemon.PerformAction(action); err != nil {
		return nil, QueuedOutput{Action: action}, err
	}
	return nil, QueuedOutput{Action: action, Queued: true}, nil
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleInput) (*mcpsdk.CallToolResult, ToggleOutput, error) {
	enabled, err := s.daemon.Toggle(args.Enabled)
	if err != nil {
		return nil, ToggleOutput{}, err
	}
	return nil, ToggleOutput{Enabled: enabled}, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, DoneOutput, error) {
	if err := s.daemon.Arrange(); err != nil {
		return nil, DoneOutput{}, err
	}
	return nil, DoneOutput{Done: true}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, DoneOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, DoneOutput{}, err
	}
	return nil, DoneOutput{Done: true}, nil
}
