package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tabletile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// sendRequest surfaces the failure as a connection error.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt returns a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) sendRequest(cmd CommandType, payload any) (*Response, error) {
	req := Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	resp, err := c.sendRequest(cmd, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) ListSlots() ([]SlotInfo, error) {
	var data SlotsData
	if err := c.call(CommandListSlots, nil, &data); err != nil {
		return nil, err
	}
	return data.Slots, nil
}

// PerformAction queues a hotkey action by name, e.g. "FOLD".
func (c *Client) PerformAction(action string) error {
	return c.call(CommandPerformAction, PerformActionPayload{Action: action}, nil)
}

// Toggle flips hotkeys when enabled is nil and returns the new state.
func (c *Client) Toggle(enabled *bool) (bool, error) {
	var data ToggleData
	if err := c.call(CommandToggle, TogglePayload{Enabled: enabled}, &data); err != nil {
		return false, err
	}
	return data.Enabled, nil
}

// Reload asks the daemon to re-read the settings files.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

func (c *Client) Arrange() error {
	return c.call(CommandArrange, nil, nil)
}

// Shutdown stops the daemon.
func (c *Client) Shutdown() error {
	return c.call(CommandShutdown, nil, nil)
}
