package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/settings"
)

// TableTab shows and edits the reference table: the window title filter,
// the table size and the button offsets.
type TableTab struct {
	draft *draft

	width  int
	height int

	editing bool
	form    *huh.Form

	fields *tableFields
}

// tableFields holds the form-bound strings. It lives behind a pointer so
// the values huh writes survive the tab being copied between updates.
type tableFields struct {
	search  string
	width   string
	height  string
	buttons map[settings.Button]*string
}

// NewTableTab creates a TableTab editing d.
func NewTableTab(d *draft) TableTab {
	return TableTab{draft: d}
}

// Update implements tea.Model.
func (t TableTab) Update(msg tea.Msg) (TableTab, tea.Cmd) {
	if t.editing {
		return t.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			t.startEditing()
			return t, t.form.Init()
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}
	return t, nil
}

func (t TableTab) updateEditing(msg tea.Msg) (TableTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.editing = false
			t.form = nil
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.applyForm()
		t.editing = false
		t.form = nil
		t.fields = nil
		return t, nil
	}
	return t, cmd
}

func (t *TableTab) startEditing() {
	table := t.draft.Table

	f := &tableFields{
		search:  table.SearchString,
		width:   strconv.Itoa(table.Width),
		height:  strconv.Itoa(table.Height),
		buttons: make(map[settings.Button]*string, len(settings.Buttons)),
	}
	t.fields = f

	buttonFields := make([]huh.Field, 0, len(settings.Buttons))
	for _, b := range settings.Buttons {
		v := ""
		if o, ok := table.ButtonOffset(b); ok {
			v = formatOffset(o)
		}
		f.buttons[b] = &v
		buttonFields = append(buttonFields, huh.NewInput().
			Key(string(b)).
			Title(string(b)).
			Description("x,y from the table's top-left corner; empty to clear").
			Validate(func(s string) error {
				_, _, err := parseOffset(s)
				return err
			}).
			Value(f.buttons[b]))
	}

	w := t.width - 4
	if w < 40 {
		w = 40
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("search_string").
				Title("Search String").
				Description("Text a table tab title must contain").
				Value(&f.search),
			huh.NewInput().
				Key("table_width").
				Title("Table Width").
				Description("Pixels").
				Validate(validateSize).
				Value(&f.width),
			huh.NewInput().
				Key("table_height").
				Title("Table Height").
				Description("Pixels").
				Validate(validateSize).
				Value(&f.height),
		),
		huh.NewGroup(buttonFields...),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	t.editing = true
}

func (t *TableTab) applyForm() {
	f := t.fields
	if f == nil {
		return
	}
	table := &t.draft.Table
	table.SearchString = strings.TrimSpace(f.search)
	if v, err := strconv.Atoi(strings.TrimSpace(f.width)); err == nil && v >= 0 {
		table.Width = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(f.height)); err == nil && v >= 0 {
		table.Height = v
	}
	if table.ButtonCoordinates == nil {
		table.ButtonCoordinates = make(map[settings.Button]settings.Offset)
	}
	for b, v := range f.buttons {
		o, set, err := parseOffset(*v)
		if err != nil {
			continue
		}
		if !set {
			delete(table.ButtonCoordinates, b)
			continue
		}
		table.ButtonCoordinates[b] = o
	}
}

func validateSize(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be a whole number of pixels")
	}
	return nil
}

// parseOffset reads "x,y". An empty string is a valid unset offset.
func parseOffset(s string) (settings.Offset, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return settings.Offset{}, false, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return settings.Offset{}, false, fmt.Errorf("want x,y")
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return settings.Offset{}, false, fmt.Errorf("want x,y as whole numbers")
	}
	return settings.Offset{X: x, Y: y}, true, nil
}

func formatOffset(o settings.Offset) string {
	return fmt.Sprintf("%d,%d", o.X, o.Y)
}

// View implements tea.Model.
func (t TableTab) View() string {
	if t.editing && t.form != nil {
		return t.viewEditing()
	}
	return t.viewDisplay()
}

func (t TableTab) viewDisplay() string {
	table := t.draft.Table

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(18).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	size := "(not grabbed)"
	if table.Configured() {
		size = fmt.Sprintf("%d×%d", table.Width, table.Height)
	}

	lines := []string{
		"",
		row("Search String", displayOrDefault(table.SearchString, "(any tab)")),
		row("Table Size", size),
		"",
	}
	for _, b := range settings.Buttons {
		v := dimStyle.Render("not set")
		if o, ok := table.ButtonOffset(b); ok {
			v = valueStyle.Render(formatOffset(o))
		}
		lines = append(lines, labelStyle.Render(string(b))+v)
	}
	lines = append(lines, "", dimStyle.Render("  Press 'e' to edit, or use `tabletile table grab` to record positions"))

	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (t TableTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Table Settings") +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(t.width).
		Height(t.height).
		Padding(1, 2).
		Render(header + "\n\n" + t.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
