package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/platform"
)

func TestLoadMissingFilesYieldDefaults(t *testing.T) {
	s := NewStore(t.TempDir())

	table, err := s.LoadTable()
	require.NoError(t, err)
	assert.False(t, table.Configured())
	assert.NotNil(t, table.ButtonCoordinates)

	layout, err := s.LoadLayout()
	require.NoError(t, err)
	assert.Equal(t, 1, layout.TableCount)

	hk, err := s.LoadHotkeys()
	require.NoError(t, err)
	assert.Empty(t, hk)
}

func TestTableSettingsFileShape(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	table := DefaultTableSettings()
	table.Width, table.Height = 800, 600
	table.SearchString = "SNG Tracker"
	require.NoError(t, table.SetButton(ButtonFold, platform.Point{X: 150, Y: 250}, platform.Rect{X: 100, Y: 200, Width: 800, Height: 600}))
	require.NoError(t, s.SaveTable(table))

	data, err := os.ReadFile(filepath.Join(dir, TableFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"table_configuration": {
			"table_height": 600,
			"table_width": 800,
			"search_string": "SNG Tracker",
			"button_coordinates": {"FOLD": [50, 50]}
		}
	}`, string(data))

	loaded, err := s.LoadTable()
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestLoadTableReadsOriginalFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"table_configuration": {"table_height": 5, "table_width": 5, "search_string": "SNG Tracker"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TableFile), []byte(content), 0o644))

	table, err := NewStore(dir).LoadTable()
	require.NoError(t, err)
	assert.Equal(t, 5, table.Height)
	assert.Equal(t, 5, table.Width)
	assert.Equal(t, "SNG Tracker", table.SearchString)
}

func TestLoadTableReportsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TableFile), []byte(`{"table_configuration": {"button_coordinates": {"FOLD": [1]}}}`), 0o644))

	_, err := NewStore(dir).LoadTable()
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, filepath.Join(dir, TableFile), fileErr.Path)
}

func TestSaveKeepsOtherTopLevelKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LayoutFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"note": "keep me"}`), 0o644))

	s := NewStore(dir)
	require.NoError(t, s.SaveLayout(DefaultLayoutSettings()))

	var wrapper map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &wrapper))
	assert.Contains(t, wrapper, "note")
	assert.Contains(t, wrapper, "layout_configuration")
}

func TestSetButtonOutsideWindowLeavesCoordinatesUnchanged(t *testing.T) {
	table := DefaultTableSettings()
	ref := platform.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	require.NoError(t, table.SetButton(ButtonBet, platform.Point{X: 110, Y: 120}, ref))

	err := table.SetButton(ButtonBet, platform.Point{X: 50, Y: 120}, ref)
	require.ErrorIs(t, err, ErrButtonOutsideWindow)

	o, ok := table.ButtonOffset(ButtonBet)
	require.True(t, ok)
	assert.Equal(t, Offset{X: 10, Y: 20}, o)
}

func TestParseButton(t *testing.T) {
	b, err := ParseButton("check_call")
	require.NoError(t, err)
	assert.Equal(t, ButtonCheckCall, b)

	_, err = ParseButton("ALL_IN")
	assert.ErrorIs(t, err, ErrUnknownButton)
}

func TestHotkeyDuplicatesRejected(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	hk := HotkeySettings{"FOLD": "F1", "CHECK_CALL": "f1", "BET": "-", "RAISE": "-"}
	err := s.SaveHotkeys(hk)

	var dup *DuplicateHotkeysError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "F1", dup.Key)
	assert.Equal(t, []string{"CHECK_CALL", "FOLD"}, dup.Actions)

	_, statErr := os.Stat(filepath.Join(dir, HotkeysFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestHotkeysUnboundOptionsMayRepeat(t *testing.T) {
	hk := HotkeySettings{"FOLD": "-", "BET": "-", "RAISE": "", "CHECK_CALL": "Button.x1"}
	assert.NoError(t, hk.Validate())
}

func TestNormalizeOption(t *testing.T) {
	assert.Equal(t, "A", NormalizeOption("a"))
	assert.Equal(t, "F12", NormalizeOption("f12"))
	assert.Equal(t, "Button.x1", NormalizeOption("BUTTON.X1"))
}

func TestSetTableCount(t *testing.T) {
	l := DefaultLayoutSettings()

	require.NoError(t, l.SetTableCount(3, func(n int) SlotOrigin {
		return SlotOrigin{Top: n * 10, Left: n * 100}
	}))
	assert.Equal(t, 3, l.TableCount)
	assert.Equal(t, []string{"slot_1", "slot_2", "slot_3"}, l.SlotIDs())
	assert.Equal(t, SlotOrigin{Top: 30, Left: 300}, l.Slots["slot_3"])
	assert.Equal(t, SlotOrigin{}, l.Slots["slot_1"])

	require.NoError(t, l.SetTableCount(2, nil))
	assert.Equal(t, []string{"slot_1", "slot_2"}, l.SlotIDs())

	assert.ErrorIs(t, l.SetTableCount(0, nil), ErrInvalidTableCount)
	assert.Equal(t, 2, l.TableCount)
}

func TestBuildSlotsUsesNaturalOrderAndTableSize(t *testing.T) {
	l := LayoutSettings{TableCount: 2, Slots: map[string]SlotOrigin{
		"slot_10": {Top: 1, Left: 2},
		"slot_2":  {Top: 3, Left: 4},
	}}
	table := TableSettings{Width: 640, Height: 480}

	got := l.BuildSlots(table)
	require.Len(t, got, 2)
	assert.Equal(t, "slot_2", got[0].ID)
	assert.Equal(t, 4, got[0].Left)
	assert.Equal(t, 640, got[1].Width)
	assert.Equal(t, 480, got[1].Height)
}

func TestBuildSlotsStopsAtTableCount(t *testing.T) {
	l := LayoutSettings{TableCount: 2, Slots: map[string]SlotOrigin{
		"slot_1": {Top: 0, Left: 0},
		"slot_2": {Top: 0, Left: 100},
		"slot_3": {Top: 0, Left: 200},
	}}

	got := l.BuildSlots(TableSettings{Width: 20, Height: 20})
	require.Len(t, got, 2)
	assert.Equal(t, "slot_1", got[0].ID)
	assert.Equal(t, "slot_2", got[1].ID)
}

func TestSaveWritesWorldReadableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewStore(dir).SaveLayout(DefaultLayoutSettings()))

	info, err := os.Stat(filepath.Join(dir, LayoutFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWatcherSignalsOnSave(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 1)
	go w.Run(ctx, changes)

	require.NoError(t, NewStore(dir).SaveLayout(DefaultLayoutSettings()))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after save")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 1)
	go w.Run(ctx, changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected change signal")
	case <-time.After(200 * time.Millisecond):
	}
}
