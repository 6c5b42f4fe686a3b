package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tabletile/internal/settings"
)

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
	diffFile
	diffGap
)

type diffLine struct {
	kind diffKind
	text string
}

// diffContextLines is how many unchanged lines are kept around a change.
const diffContextLines = 2

// maxDiffCells bounds the alignment table; bigger files are shown as a
// plain replacement.
const maxDiffCells = 250_000

var errNoChanges = errors.New("no changes to save")

var (
	saveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	saveFileStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	saveAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	saveDelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	saveCtxStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	saveFootStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	saveBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// SaveOverlay previews the pending changes per settings file and writes
// them on confirmation.
type SaveOverlay struct {
	phase     savePhase
	diffLines []diffLine
	err       error
	reloaded  bool
	scroll    int
}

func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Show opens the preview. A draft that fails validation, such as one key
// bound to two actions, goes straight to the result box with the error.
func (s *SaveOverlay) Show(original, current draft) {
	*s = SaveOverlay{phase: saveResult}
	if err := current.validate(); err != nil {
		s.err = err
		return
	}
	s.diffLines = computeDiffLines(original, current)
	if len(s.diffLines) == 0 {
		s.err = errNoChanges
		return
	}
	s.phase = savePreview
}

// Update handles a key while the overlay is open. On confirm the draft is
// written and a running daemon is asked to reload.
func (s SaveOverlay) Update(msg tea.Msg, current draft, store *settings.Store, daemon Daemon) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}
	if s.phase != savePreview {
		return s
	}

	switch km.String() {
	case "esc", "n":
		s.phase = saveHidden
	case "enter", "y":
		s.err = current.save(store)
		if s.err == nil && daemon != nil {
			s.reloaded = daemon.Reload() == nil
		}
		s.phase = saveResult
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
	case "down", "j":
		s.scroll = min(s.scroll+1, max(len(s.diffLines)-1, 0))
	}
	return s
}

// View renders the overlay centered in a width x height area.
func (s SaveOverlay) View(width, height int) string {
	var content string
	boxW := clamp(width-8, 30, 80)
	switch s.phase {
	case savePreview:
		content = s.previewContent(boxW-6, max(height-10, 3))
	case saveResult:
		boxW = clamp(width-8, 30, 60)
		content = s.resultContent()
	default:
		return ""
	}
	box := saveBoxStyle.Width(boxW).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) previewContent(innerW, rows int) string {
	first := min(s.scroll, max(len(s.diffLines)-rows, 0))
	last := min(first+rows, len(s.diffLines))

	var b strings.Builder
	b.WriteString(saveTitleStyle.Render("Save Settings: Pending Changes"))
	b.WriteString("\n\n")
	for _, dl := range s.diffLines[first:last] {
		text := dl.text
		if w := max(innerW-2, 8); len(text) > w {
			text = text[:w]
		}
		switch dl.kind {
		case diffFile:
			b.WriteString(saveFileStyle.Render(text))
		case diffAdded:
			b.WriteString(saveAddStyle.Render("+ " + text))
		case diffRemoved:
			b.WriteString(saveDelStyle.Render("- " + text))
		case diffGap:
			b.WriteString(saveCtxStyle.Render("  ..."))
		default:
			b.WriteString(saveCtxStyle.Render("  " + text))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(saveFootStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return b.String()
}

func (s SaveOverlay) resultContent() string {
	var msg string
	if s.err != nil {
		msg = saveDelStyle.Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = saveAddStyle.Bold(true).Render("Settings saved")
		if s.reloaded {
			msg += "\n" + saveAddStyle.Render("Daemon reloaded")
		}
	}
	return msg + "\n\n" + saveFootStyle.Render("press any key to dismiss")
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// computeDiffLines lists the changed settings files, each headed by its
// file name and trimmed to the changes plus a little context.
func computeDiffLines(original, current draft) []diffLine {
	before := original.files()
	after := current.files()

	var out []diffLine
	for i := range min(len(before), len(after)) {
		if before[i].body == after[i].body {
			continue
		}
		out = append(out, diffLine{kind: diffFile, text: after[i].name})
		lines := lcsDiff(strings.Split(before[i].body, "\n"), strings.Split(after[i].body, "\n"))
		out = append(out, trimContext(lines, diffContextLines)...)
	}
	return out
}

// lcsDiff aligns a and b on their longest common subsequence. At a
// mismatch the removed line is listed before the added one.
func lcsDiff(a, b []string) []diffLine {
	if len(a)*len(b) > maxDiffCells {
		out := make([]diffLine, 0, len(a)+len(b))
		for _, l := range a {
			out = append(out, diffLine{kind: diffRemoved, text: l})
		}
		for _, l := range b {
			out = append(out, diffLine{kind: diffAdded, text: l})
		}
		return out
	}

	// common[i][j] is the LCS length of a[i:] and b[j:].
	common := make([][]int, len(a)+1)
	for i := range common {
		common[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				common[i][j] = common[i+1][j+1] + 1
			} else {
				common[i][j] = max(common[i+1][j], common[i][j+1])
			}
		}
	}

	out := make([]diffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{kind: diffContext, text: a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && common[i+1][j] >= common[i][j+1]):
			out = append(out, diffLine{kind: diffRemoved, text: a[i]})
			i++
		default:
			out = append(out, diffLine{kind: diffAdded, text: b[j]})
			j++
		}
	}
	return out
}

// trimContext drops unchanged lines further than n lines from a change,
// marking each cut with a gap line.
func trimContext(lines []diffLine, n int) []diffLine {
	near := make([]bool, len(lines))
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		for k := max(i-n, 0); k <= min(i+n, len(lines)-1); k++ {
			near[k] = true
		}
	}

	var out []diffLine
	skipped := false
	for i, l := range lines {
		if !near[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, diffLine{kind: diffGap})
		}
		skipped = false
		out = append(out, l)
	}
	return out
}
