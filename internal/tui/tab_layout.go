package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tiling"
)

var layoutModes = []tiling.Mode{tiling.ModeAuto, tiling.ModeHorizontal, tiling.ModeVertical, tiling.ModeCascade}

// LayoutTab edits the table count and the slot origins, with a scaled
// preview of where the tables will sit.
type LayoutTab struct {
	draft *draft
	opts  tiling.Options

	selected   int
	statusText string

	width  int
	height int

	editing bool
	form    *huh.Form
	origin  *string
}

// NewLayoutTab creates a LayoutTab editing d. opts drive the grid used
// for new and regenerated slots.
func NewLayoutTab(d *draft, opts tiling.Options) LayoutTab {
	return LayoutTab{draft: d, opts: opts}
}

// Update implements tea.Model.
func (lt LayoutTab) Update(msg tea.Msg) (LayoutTab, tea.Cmd) {
	if lt.editing {
		return lt.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lt.width = msg.Width
		lt.height = msg.Height
		return lt, nil

	case tea.KeyMsg:
		lt.statusText = ""
		switch msg.String() {
		case "up", "k":
			if lt.selected > 0 {
				lt.selected--
			}
		case "down", "j":
			if lt.selected < len(lt.draft.Layout.Slots)-1 {
				lt.selected++
			}
		case "+", "=":
			lt.setCount(lt.draft.Layout.TableCount + 1)
		case "-":
			lt.setCount(lt.draft.Layout.TableCount - 1)
		case "m":
			lt.opts.Mode = nextMode(lt.opts.Mode)
			lt.statusText = "mode: " + string(lt.opts.Mode) + " (g to apply)"
		case "g":
			lt.regenerate()
		case "e", "enter":
			if ids := lt.draft.Layout.SlotIDs(); lt.selected < len(ids) {
				lt.startEditing(ids[lt.selected])
				return lt, lt.form.Init()
			}
		}
	}
	return lt, nil
}

func (lt LayoutTab) updateEditing(msg tea.Msg) (LayoutTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		lt.stopEditing()
		return lt, nil
	}

	form, cmd := lt.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lt.form = f
	}
	if lt.form.State == huh.StateCompleted {
		ids := lt.draft.Layout.SlotIDs()
		if o, set, err := parseOffset(*lt.origin); err == nil && set && lt.selected < len(ids) {
			lt.draft.Layout.Slots[ids[lt.selected]] = settings.SlotOrigin{Left: o.X, Top: o.Y}
		}
		lt.stopEditing()
		return lt, nil
	}
	return lt, cmd
}

func (lt *LayoutTab) startEditing(id string) {
	o := lt.draft.Layout.Slots[id]
	v := fmt.Sprintf("%d,%d", o.Left, o.Top)
	lt.origin = &v

	lt.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("origin").
				Title(id).
				Description("left,top of the slot in screen pixels").
				Validate(func(s string) error {
					_, set, err := parseOffset(s)
					if err == nil && !set {
						return fmt.Errorf("origin is required")
					}
					return err
				}).
				Value(lt.origin),
		),
	).WithWidth(40).WithShowErrors(true)
	lt.editing = true
}

func (lt *LayoutTab) stopEditing() {
	lt.editing = false
	lt.form = nil
	lt.origin = nil
}

// setCount changes the table count. Added slots take the position the
// grid would give them for the new count.
func (lt *LayoutTab) setCount(n int) {
	if n < 1 {
		lt.statusText = "at least one table is required"
		return
	}
	var origins []platform.Point
	if lt.draft.Table.Configured() {
		screen := referenceScreen(slotRects(*lt.draft))
		var err error
		origins, err = tiling.SlotOrigins(n, screen, lt.draft.Table.Size(), lt.opts)
		if err != nil {
			lt.statusText = err.Error()
		}
	}
	place := func(i int) settings.SlotOrigin {
		if i-1 < len(origins) {
			p := origins[i-1]
			return settings.SlotOrigin{Left: p.X, Top: p.Y}
		}
		return settings.SlotOrigin{}
	}
	if err := lt.draft.Layout.SetTableCount(n, place); err != nil {
		lt.statusText = err.Error()
		return
	}
	lt.selected = min(lt.selected, n-1)
}

// regenerate replaces every origin with a fresh grid.
func (lt *LayoutTab) regenerate() {
	if !lt.draft.Table.Configured() {
		lt.statusText = "grab the table size first"
		return
	}
	screen := referenceScreen(slotRects(*lt.draft))
	origins, err := tiling.SlotOrigins(lt.draft.Layout.TableCount, screen, lt.draft.Table.Size(), lt.opts)
	if err != nil {
		lt.statusText = err.Error()
		return
	}
	if err := lt.draft.Layout.SetOrigins(origins); err != nil {
		lt.statusText = err.Error()
		return
	}
	lt.statusText = fmt.Sprintf("regenerated %d slots (%s)", len(origins), lt.opts.Mode)
}

func nextMode(m tiling.Mode) tiling.Mode {
	for i, mode := range layoutModes {
		if mode == m {
			return layoutModes[(i+1)%len(layoutModes)]
		}
	}
	return tiling.ModeAuto
}

func (lt LayoutTab) sidebarWidth() int {
	sw := lt.width * 35 / 100
	return min(max(sw, 30), 40)
}

// View implements tea.Model.
func (lt LayoutTab) View() string {
	if lt.width == 0 || lt.height == 0 {
		return ""
	}

	sidebarWidth := lt.sidebarWidth()
	previewWidth := max(lt.width-sidebarWidth-3, 10)
	bodyHeight := max(lt.height-2, 1)

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(lt.renderSlotList())

	var right string
	if lt.editing && lt.form != nil {
		right = lt.form.View()
	} else {
		right = lt.renderPreview(previewWidth, bodyHeight)
	}

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep+" ", right)
	return lipgloss.JoinVertical(lipgloss.Left, columns, lt.renderTabStatus())
}

func (lt LayoutTab) renderSlotList() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render(fmt.Sprintf("Slots (%d)", lt.draft.Layout.TableCount))

	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	lines := []string{title, ""}
	for i, id := range lt.draft.Layout.SlotIDs() {
		line := slotLabel(id, lt.draft.Layout.Slots[id])
		if i == lt.selected {
			lines = append(lines, selStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (lt LayoutTab) renderPreview(width, height int) string {
	d := *lt.draft
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(summarizeLayout(d))

	rects := slotRects(d)
	canvas := renderASCIIPreview(rects, referenceScreen(rects), max(width-2, 5), max(height-2, 3))
	block := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(canvas, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", block)
}

func (lt LayoutTab) renderTabStatus() string {
	left := ""
	if lt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(lt.statusText)
	}

	right := dimStyle.Render(fmt.Sprintf("mode:%s  +/-:count  e:edit origin  m:mode  g:regenerate", lt.opts.Mode))

	gap := max(lt.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return lipgloss.NewStyle().
		Width(lt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
