package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/ipc"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabTable Tab = iota
	TabHotkeys
	TabLayout
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabTable:
		return "Table"
	case TabHotkeys:
		return "Hotkeys"
	case TabLayout:
		return "Layout"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// statusLine summarizes the daemon state. A nil status means the daemon
// could not be reached.
func statusLine(status *ipc.StatusData, dirty bool) string {
	var parts []string
	if status == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		parts = append(parts, dot+" daemon not running")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		hk := "hotkeys:off"
		if status.HotkeysEnabled {
			hk = "hotkeys:on"
		}
		parts = append(parts,
			dot+" daemon running",
			hk,
			fmt.Sprintf("seated:%d/%d", status.Seated, status.TableCount),
		)
		if n := len(status.Unassigned); n > 0 {
			parts = append(parts, fmt.Sprintf("waiting:%d", n))
		}
	}
	if dirty {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("unsaved changes"))
	}
	return strings.Join(parts, "  ")
}

func renderStatusBar(status *ipc.StatusData, dirty bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(statusLine(status, dirty))
}

// renderHelpBar renders the bottom help/keybinding bar. notice, when set,
// replaces the key help for a few seconds.
func renderHelpBar(notice string, width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump to tab  s: start/stop hotkeys  ctrl-s: save  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	if notice != "" {
		return style.Foreground(lipgloss.Color("42")).Render(notice)
	}
	return style.Render(help)
}
