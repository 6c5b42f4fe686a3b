package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/settings"
)

// hotkeyItem is a list item for one bindable action.
type hotkeyItem struct {
	action    string
	option    string
	conflicts []string
}

func (i hotkeyItem) Title() string {
	if len(i.conflicts) > 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("!") + " " + i.action
	}
	return "  " + i.action
}

func (i hotkeyItem) Description() string {
	if settings.IsUnbound(i.option) {
		return "unbound"
	}
	if len(i.conflicts) > 0 {
		return i.option + " | also " + strings.Join(i.conflicts, ", ")
	}
	return i.option
}

func (i hotkeyItem) FilterValue() string { return i.action }

// HotkeysTab lists every action with its bound option and edits one
// binding at a time through a select.
type HotkeysTab struct {
	list  list.Model
	draft *draft

	width  int
	height int

	editing bool
	form    *huh.Form
	// choice is bound to the select; a pointer so huh's writes survive
	// copies of the tab.
	choice *string
	target string
}

// NewHotkeysTab creates a HotkeysTab editing d.
func NewHotkeysTab(d *draft) HotkeysTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(buildHotkeyItems(d.Hotkeys), delegate, 0, 0)
	l.Title = "Hotkeys"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return HotkeysTab{list: l, draft: d}
}

// buildHotkeyItems lists every action in display order, marking options
// shared by more than one action.
func buildHotkeyItems(h settings.HotkeySettings) []list.Item {
	byOption := make(map[string][]string)
	for action, option := range h {
		if settings.IsUnbound(option) {
			continue
		}
		key := settings.NormalizeOption(option)
		byOption[key] = append(byOption[key], action)
	}

	actions := hotkeys.Actions()
	items := make([]list.Item, 0, len(actions))
	for _, a := range actions {
		name := a.String()
		option, ok := h[name]
		if !ok || settings.IsUnbound(option) {
			option = settings.Unbound
		}
		item := hotkeyItem{action: name, option: option}
		if option != settings.Unbound {
			for _, other := range byOption[settings.NormalizeOption(option)] {
				if other != name {
					item.conflicts = append(item.conflicts, other)
				}
			}
			sort.Strings(item.conflicts)
		}
		items = append(items, item)
	}
	return items
}

// Update handles messages for the hotkeys tab.
func (h HotkeysTab) Update(msg tea.Msg) (HotkeysTab, tea.Cmd) {
	if h.editing {
		return h.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.list.SetSize(h.listWidth(), h.height)
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "e":
			if item, ok := h.list.SelectedItem().(hotkeyItem); ok {
				h.startEditing(item)
				return h, h.form.Init()
			}
			return h, nil
		case "x", "delete":
			if item, ok := h.list.SelectedItem().(hotkeyItem); ok {
				h.bind(item.action, settings.Unbound)
			}
			return h, nil
		case "r":
			h.draft.Hotkeys = hotkeys.DefaultHotkeys()
			h.list.SetItems(buildHotkeyItems(h.draft.Hotkeys))
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return h, cmd
}

func (h HotkeysTab) updateEditing(msg tea.Msg) (HotkeysTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			h.stopEditing()
			return h, nil
		}
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}
	if h.form.State == huh.StateCompleted {
		h.bind(h.target, *h.choice)
		h.stopEditing()
		return h, nil
	}
	return h, cmd
}

func (h *HotkeysTab) startEditing(item hotkeyItem) {
	choice := item.option
	h.choice = &choice
	h.target = item.action

	options := hotkeys.Options()
	if action, err := hotkeys.ParseAction(item.action); err == nil && action == hotkeys.ActionToggle {
		options = keyboardOptions(options)
	}
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		label := o
		if o == settings.Unbound {
			label = "- (unbound)"
		}
		opts = append(opts, huh.NewOption(label, o))
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("option").
				Title(item.action).
				Description("Key or mouse button that triggers this action").
				Options(opts...).
				Height(12).
				Value(h.choice),
		),
	).WithWidth(max(h.width-h.listWidth()-4, 30)).WithShowHelp(true)
	h.editing = true
}

func (h *HotkeysTab) stopEditing() {
	h.editing = false
	h.form = nil
	h.choice = nil
	h.target = ""
}

// bind sets action to option and refreshes the list, keeping the cursor.
func (h *HotkeysTab) bind(action, option string) {
	if h.draft.Hotkeys == nil {
		h.draft.Hotkeys = make(settings.HotkeySettings)
	}
	h.draft.Hotkeys[action] = option
	idx := h.list.Index()
	h.list.SetItems(buildHotkeyItems(h.draft.Hotkeys))
	h.list.Select(idx)
}

// keyboardOptions drops mouse buttons; the toggle hotkey must be a key.
func keyboardOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if strings.HasPrefix(o, "Button.") {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (h HotkeysTab) listWidth() int {
	w := h.width * 2 / 5
	if w < 28 {
		w = 28
	}
	return w
}

// View implements tea.Model.
func (h HotkeysTab) View() string {
	if h.width == 0 || h.height == 0 {
		return ""
	}

	leftWidth := h.listWidth()
	rightWidth := max(h.width-leftWidth, 10)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(h.height).
		Render(h.list.View())

	var body string
	if h.editing && h.form != nil {
		body = h.form.View()
	} else {
		body = h.renderDetail()
	}

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(h.height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		Render(body)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (h HotkeysTab) renderDetail() string {
	item, ok := h.list.SelectedItem().(hotkeyItem)
	if !ok {
		return dimStyle.Render("No actions")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render(item.action))
	b.WriteString("\n\n")
	b.WriteString(describeAction(item.action))
	b.WriteString("\n\n")

	if len(item.conflicts) > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(
			fmt.Sprintf("%s is also bound to %s; saving will fail until one is changed",
				item.option, strings.Join(item.conflicts, ", "))))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).
		Render("enter: change  x: unbind  r: reset all to defaults"))
	return b.String()
}

func describeAction(name string) string {
	a, err := hotkeys.ParseAction(name)
	if err != nil {
		return ""
	}
	if btn, ok := a.Button(); ok {
		desc := fmt.Sprintf("Clicks %s on the table under the pointer.", btn)
		if a.MovesToAmount() {
			desc += " The pointer then rests on the amount field."
		}
		return desc
	}
	if n, ok := a.SlotNumber(); ok {
		return fmt.Sprintf("Moves the pointer to the center of slot %d and focuses the table seated there.", n)
	}
	if a == hotkeys.ActionToggle {
		return "Turns every other hotkey on or off. Only letters and function keys are allowed."
	}
	return ""
}
