package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tiling"
)

type fakeDaemon struct {
	enabled  bool
	reloads  int
	toggles  int
	statusOK bool
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if !d.statusOK {
		return nil, errors.New("failed to connect to daemon")
	}
	return &ipc.StatusData{HotkeysEnabled: d.enabled, TableCount: 2, Seated: 1}, nil
}

func (d *fakeDaemon) Toggle(enabled *bool) (bool, error) {
	d.toggles++
	if enabled != nil {
		d.enabled = *enabled
	} else {
		d.enabled = !d.enabled
	}
	return d.enabled, nil
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func TestSaveRejectsDuplicateHotkeysInline(t *testing.T) {
	store := settings.NewStore(t.TempDir())
	m := newModel(store, &fakeDaemon{})
	m.draft.Hotkeys["FOLD"] = "F1"
	m.draft.Hotkeys["BET"] = "f1"

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.True(t, m.saveOverlay.Active())
	assert.Equal(t, saveResult, m.saveOverlay.phase)
	var dup *settings.DuplicateHotkeysError
	require.ErrorAs(t, m.saveOverlay.err, &dup)
	assert.Equal(t, []string{"BET", "FOLD"}, dup.Actions)

	// Any key dismisses the message and nothing was written.
	m, _ = update(t, m, key("x"))
	assert.False(t, m.saveOverlay.Active())
	loaded, err := store.LoadHotkeys()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveWritesSettingsAndReloadsDaemon(t *testing.T) {
	store := settings.NewStore(t.TempDir())
	daemon := &fakeDaemon{}
	m := newModel(store, daemon)
	m.draft.Table.SearchString = "Tournament"
	m.draft.Hotkeys["FOLD"] = "F1"
	require.True(t, m.dirty())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, savePreview, m.saveOverlay.phase)
	require.NotEmpty(t, m.saveOverlay.diffLines)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.saveOverlay.SaveSucceeded(), "save error: %v", m.saveOverlay.err)
	assert.True(t, m.saveOverlay.reloaded)
	assert.Equal(t, 1, daemon.reloads)
	assert.False(t, m.dirty())

	table, err := store.LoadTable()
	require.NoError(t, err)
	assert.Equal(t, "Tournament", table.SearchString)
	hk, err := store.LoadHotkeys()
	require.NoError(t, err)
	assert.Equal(t, "F1", hk["FOLD"])
}

func TestSaveWithoutChanges(t *testing.T) {
	m := newModel(settings.NewStore(t.TempDir()), nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, saveResult, m.saveOverlay.phase)
	assert.EqualError(t, m.saveOverlay.err, "no changes to save")
}

func TestToggleKeyGoesThroughDaemon(t *testing.T) {
	daemon := &fakeDaemon{enabled: true}
	m := newModel(settings.NewStore(t.TempDir()), daemon)

	_, cmd := update(t, m, key("s"))
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, 1, daemon.toggles)
	assert.False(t, daemon.enabled)
	assert.Equal(t, noticeMsg{text: "hotkeys stopped"}, msg)
}

func TestStatusBarReflectsDaemon(t *testing.T) {
	assert.Contains(t, statusLine(nil, false), "daemon not running")

	line := statusLine(&ipc.StatusData{HotkeysEnabled: true, TableCount: 3, Seated: 2, Unassigned: []uint32{9}}, true)
	assert.Contains(t, line, "hotkeys:on")
	assert.Contains(t, line, "seated:2/3")
	assert.Contains(t, line, "waiting:1")
	assert.Contains(t, line, "unsaved changes")
}

func TestFetchStatusWithoutDaemon(t *testing.T) {
	m := newModel(settings.NewStore(t.TempDir()), &fakeDaemon{})
	msg := m.fetchStatus()()
	assert.Equal(t, daemonStatusMsg{}, msg)
}

func TestTabSwitching(t *testing.T) {
	m := newModel(settings.NewStore(t.TempDir()), nil)

	m, _ = update(t, m, key("3"))
	assert.Equal(t, TabLayout, m.activeTab)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabTable, m.activeTab)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabLayout, m.activeTab)
}

func TestBuildHotkeyItemsMarksConflicts(t *testing.T) {
	h := settings.HotkeySettings{"FOLD": "A", "RAISE": "a", "BET": "F2"}

	items := buildHotkeyItems(h)
	byAction := make(map[string]hotkeyItem)
	for _, it := range items {
		hi := it.(hotkeyItem)
		byAction[hi.action] = hi
	}

	assert.Equal(t, []string{"RAISE"}, byAction["FOLD"].conflicts)
	assert.Equal(t, []string{"FOLD"}, byAction["RAISE"].conflicts)
	assert.Empty(t, byAction["BET"].conflicts)
	assert.Equal(t, settings.Unbound, byAction["CHECK_CALL"].option)
	assert.Equal(t, "unbound", byAction["CHECK_CALL"].Description())
	assert.Equal(t, "MOVE_TO_SLOT_10", items[len(items)-1].(hotkeyItem).action)
}

func TestHotkeysTabUnbind(t *testing.T) {
	d := &draft{Hotkeys: settings.HotkeySettings{"FOLD": "F1"}}
	tab := NewHotkeysTab(d)

	tab, _ = tab.Update(key("x"))
	assert.Equal(t, settings.Unbound, d.Hotkeys["FOLD"])
}

func TestKeyboardOptionsDropsMouseButtons(t *testing.T) {
	for _, o := range keyboardOptions([]string{"-", "Button.x1", "A", "F3"}) {
		assert.NotContains(t, o, "Button.")
	}
}

func TestLayoutTabCount(t *testing.T) {
	d := &draft{
		Table:  settings.TableSettings{Width: 400, Height: 300},
		Layout: settings.DefaultLayoutSettings(),
	}
	tab := NewLayoutTab(d, tiling.DefaultOptions())

	tab, _ = tab.Update(key("+"))
	require.Equal(t, 2, d.Layout.TableCount)

	want, err := tiling.SlotOrigins(2, defaultScreen, d.Table.Size(), tiling.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, settings.SlotOrigin{}, d.Layout.Slots["slot_1"], "existing slots keep their origin")
	assert.Equal(t, settings.SlotOrigin{Left: want[1].X, Top: want[1].Y}, d.Layout.Slots["slot_2"])

	tab, _ = tab.Update(key("-"))
	tab, _ = tab.Update(key("-"))
	assert.Equal(t, 1, d.Layout.TableCount)
	assert.Equal(t, "at least one table is required", tab.statusText)
}

func TestLayoutTabRegenerateNeedsTableSize(t *testing.T) {
	d := &draft{Layout: settings.DefaultLayoutSettings()}
	tab := NewLayoutTab(d, tiling.DefaultOptions())

	tab, _ = tab.Update(key("g"))
	assert.Equal(t, "grab the table size first", tab.statusText)
}

func TestNextModeCycles(t *testing.T) {
	assert.Equal(t, tiling.ModeHorizontal, nextMode(tiling.ModeAuto))
	assert.Equal(t, tiling.ModeAuto, nextMode(tiling.ModeCascade))
}

func TestParseOffset(t *testing.T) {
	o, set, err := parseOffset(" 12, 40 ")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, settings.Offset{X: 12, Y: 40}, o)

	_, set, err = parseOffset("")
	require.NoError(t, err)
	assert.False(t, set)

	_, _, err = parseOffset("12")
	assert.Error(t, err)
}

func TestRenderASCIIPreviewNumbersSlots(t *testing.T) {
	rects := []platform.Rect{
		{X: 0, Y: 0, Width: 400, Height: 300},
		{X: 960, Y: 0, Width: 400, Height: 300},
	}
	lines := renderASCIIPreview(rects, defaultScreen, 40, 12)
	require.Len(t, lines, 12)

	top := []rune(lines[0])
	assert.Equal(t, '╔', top[0])
	assert.Equal(t, '╗', top[39])

	mid := []rune(lines[2])
	assert.Equal(t, '1', mid[4])
	assert.Equal(t, '2', mid[24])
}

func TestReferenceScreenGrowsToFitSlots(t *testing.T) {
	screen := referenceScreen([]platform.Rect{{X: 2000, Y: 100, Width: 400, Height: 300}})
	assert.Equal(t, platform.Rect{Width: 2400, Height: 1080}, screen)
}

func TestComputeDiffLines(t *testing.T) {
	a := draft{Layout: settings.DefaultLayoutSettings(), Hotkeys: settings.HotkeySettings{"FOLD": "-"}}
	b := a.clone()
	assert.Nil(t, computeDiffLines(a, b))

	b.Hotkeys["FOLD"] = "F1"
	lines := computeDiffLines(a, b)
	var added, removed int
	for _, l := range lines {
		switch l.kind {
		case diffAdded:
			added++
			assert.Contains(t, l.text, `"F1"`)
		case diffRemoved:
			removed++
		}
	}
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "-", a.Hotkeys["FOLD"], "clone must not share maps")
}

func TestLcsDiff(t *testing.T) {
	got := lcsDiff([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	assert.Equal(t, []diffLine{
		{kind: diffContext, text: "a"},
		{kind: diffRemoved, text: "b"},
		{kind: diffAdded, text: "x"},
		{kind: diffContext, text: "c"},
	}, got)
}

func TestComputeDiffLinesHeadsEachChangedFile(t *testing.T) {
	a := draft{Layout: settings.DefaultLayoutSettings(), Hotkeys: settings.HotkeySettings{"FOLD": "-"}}
	b := a.clone()
	b.Hotkeys["FOLD"] = "F1"
	b.Table.SearchString = "Holdem"

	var files []string
	for _, l := range computeDiffLines(a, b) {
		if l.kind == diffFile {
			files = append(files, l.text)
		}
	}
	assert.Equal(t, []string{settings.TableFile, settings.HotkeysFile}, files)
}

func TestTrimContextMarksGaps(t *testing.T) {
	var lines []diffLine
	for i := range 10 {
		lines = append(lines, diffLine{kind: diffContext, text: string(rune('a' + i))})
	}
	lines[8] = diffLine{kind: diffAdded, text: "new"}

	got := trimContext(lines, 1)
	assert.Equal(t, []diffLine{
		{kind: diffContext, text: "h"},
		{kind: diffAdded, text: "new"},
		{kind: diffContext, text: "j"},
	}, got)

	lines[0] = diffLine{kind: diffRemoved, text: "old"}
	got = trimContext(lines, 1)
	require.Len(t, got, 6)
	assert.Equal(t, diffGap, got[2].kind)
}
