// Package tui is the interactive settings editor.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/settings"
)

// Daemon is the part of the IPC client the editor uses. A nil Daemon, or
// one whose calls fail, shows as "daemon not running".
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Toggle(enabled *bool) (bool, error)
	Reload() error
}

// Run opens the editor on the settings in store and blocks until the user
// quits.
func Run(store *settings.Store, daemon Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("settings editor requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(store, daemon), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
