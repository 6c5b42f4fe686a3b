package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
)

// Handler is the daemon side of every command. Methods are called from
// per-connection goroutines.
type Handler interface {
	Status() StatusData
	Slots() []SlotInfo
	PerformAction(name string) error
	SetHotkeys(enabled *bool) (bool, error)
	Reload() error
	Arrange() error
	Shutdown()
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler
	logger     *slog.Logger

	wg           sync.WaitGroup
	shutdownMu   sync.Mutex
	shuttingDown bool
}

// NewServer creates a server bound to socketPath once Start is called.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections. A stale socket left by a
// crashed daemon is removed, a live one is an error.
func (s *Server) Start() error {
	if err := removeStaleSocket(s.socketPath); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func removeStaleSocket(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if conn, err := net.Dial("unix", path); err == nil {
		conn.Close()
		return fmt.Errorf("another daemon is already listening on %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	out, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "err", err)
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		s.logger.Warn("failed to send IPC response", "err", err)
	}

	if req != nil && req.Command == CommandShutdown {
		s.handler.Shutdown()
	}
}

func (s *Server) handleCommand(req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("IPC handler panic", "command", req.Command, "panic", r)
			resp = NewErrorResponse(fmt.Sprintf("internal error handling %s", req.Command))
		}
	}()

	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandPing:
		return ok(nil)
	case CommandGetStatus:
		return ok(s.handler.Status())
	case CommandListSlots:
		return ok(SlotsData{Slots: s.handler.Slots()})
	case CommandPerformAction:
		var p PerformActionPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
		}
		if p.Action == "" {
			return NewErrorResponse("action is required")
		}
		if err := s.handler.PerformAction(p.Action); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	case CommandToggle:
		var p TogglePayload
		if len(req.Payload) > 0 {
			if err := json.Unmarshal(req.Payload, &p); err != nil {
				return NewErrorResponse(fmt.Sprintf("Invalid toggle payload: %v", err))
			}
		}
		enabled, err := s.handler.SetHotkeys(p.Enabled)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to toggle hotkeys: %v", err))
		}
		return ok(ToggleData{Enabled: enabled})
	case CommandReload:
		if err := s.handler.Reload(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload settings: %v", err))
		}
		return ok(nil)
	case CommandArrange:
		if err := s.handler.Arrange(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to arrange tables: %v", err))
		}
		return ok(nil)
	case CommandShutdown:
		return ok(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for the accept loop and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
