package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tiling"
)

const (
	statusPollInterval = 2 * time.Second
	noticeDuration     = 3 * time.Second
)

// daemonStatusMsg carries the result of a GET_STATUS round trip.
type daemonStatusMsg struct {
	status *ipc.StatusData
}

// pollStatusMsg asks for the next status refresh.
type pollStatusMsg struct{}

// noticeMsg shows text in the help bar; clearNoticeMsg removes it.
type noticeMsg struct{ text string }

type clearNoticeMsg struct{}

// model is the root bubbletea model for the TUI.
type model struct {
	store  *settings.Store
	daemon Daemon

	// draft is shared by pointer with the tabs, which edit it in place.
	draft   *draft
	saved   draft
	loadErr error

	activeTab   Tab
	tableTab    TableTab
	hotkeysTab  HotkeysTab
	layoutTab   LayoutTab
	saveOverlay SaveOverlay

	status *ipc.StatusData
	notice string

	width  int
	height int
}

func newModel(store *settings.Store, daemon Daemon) model {
	d, err := loadDraft(store)
	m := model{
		store:     store,
		daemon:    daemon,
		draft:     &d,
		saved:     d.clone(),
		loadErr:   err,
		activeTab: TabTable,
	}
	m.tableTab = NewTableTab(m.draft)
	m.hotkeysTab = NewHotkeysTab(m.draft)
	m.layoutTab = NewLayoutTab(m.draft, tiling.DefaultOptions())
	if err != nil {
		m.notice = "error: " + err.Error()
	}
	return m
}

func (m model) dirty() bool {
	return m.draft.render() != m.saved.render()
}

func (m model) fetchStatus() tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		if daemon == nil {
			return daemonStatusMsg{}
		}
		st, err := daemon.GetStatus()
		if err != nil {
			return daemonStatusMsg{}
		}
		return daemonStatusMsg{status: st}
	}
}

func (m model) toggleHotkeys() tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		if daemon == nil {
			return noticeMsg{text: "daemon not running"}
		}
		enabled, err := daemon.Toggle(nil)
		if err != nil {
			return noticeMsg{text: "error: " + err.Error()}
		}
		if enabled {
			return noticeMsg{text: "hotkeys started"}
		}
		return noticeMsg{text: "hotkeys stopped"}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetchStatus()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case daemonStatusMsg:
		m.status = msg.status
		return m, tea.Tick(statusPollInterval, func(time.Time) tea.Msg { return pollStatusMsg{} })
	case pollStatusMsg:
		return m, m.fetchStatus()
	case noticeMsg:
		m.notice = msg.text
		return m, tea.Batch(
			m.fetchStatus(),
			tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{} }),
		)
	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTabs()
		return m, nil
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, *m.draft, m.store, m.daemon)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.saved = m.draft.clone()
				return m, m.fetchStatus()
			}
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		m.saveOverlay.Show(m.saved, *m.draft)
		return m, nil
	}

	// When a sub-model captures input, delegate all messages to it
	// (the form consumes keys; only ctrl+c escapes to quit)
	if m.capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateActiveTab(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabTable
			return m, nil
		case "2":
			m.activeTab = TabHotkeys
			return m, nil
		case "3":
			m.activeTab = TabLayout
			return m, nil
		case "s":
			return m, m.toggleHotkeys()
		}
	}

	return m.updateActiveTab(msg)
}

func (m model) capturing() bool {
	switch m.activeTab {
	case TabTable:
		return m.tableTab.editing
	case TabHotkeys:
		return m.hotkeysTab.editing
	case TabLayout:
		return m.layoutTab.editing
	}
	return false
}

func (m model) updateActiveTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTable:
		m.tableTab, cmd = m.tableTab.Update(msg)
	case TabHotkeys:
		m.hotkeysTab, cmd = m.hotkeysTab.Update(msg)
	case TabLayout:
		m.layoutTab, cmd = m.layoutTab.Update(msg)
	}
	return m, cmd
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

func (m *model) resizeTabs() {
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.tableTab, _ = m.tableTab.Update(sub)
	m.hotkeysTab, _ = m.hotkeysTab.Update(sub)
	m.layoutTab, _ = m.layoutTab.Update(sub)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.dirty(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.notice, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabTable:
			content = m.tableTab.View()
		case TabHotkeys:
			content = m.hotkeysTab.View()
		case TabLayout:
			content = m.layoutTab.View()
		default:
			content = fmt.Sprintf("unknown tab %d", m.activeTab)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
