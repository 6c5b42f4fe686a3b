package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
)

func TestParseAction(t *testing.T) {
	a, err := ParseAction("move_to_slot_10")
	require.NoError(t, err)
	assert.Equal(t, ActionMoveToSlot10, a)

	a, err = ParseAction("ENABLE_DISABLE")
	require.NoError(t, err)
	assert.Equal(t, ActionToggle, a)

	_, err = ParseAction("ALL_IN")
	assert.Error(t, err)
}

func TestActionHelpers(t *testing.T) {
	assert.Len(t, Actions(), 15)
	assert.Equal(t, "MOVE_TO_SLOT_3", ActionMoveToSlot3.String())
	assert.Equal(t, ActionMoveToSlot3, MoveToSlot(3))
	assert.Equal(t, ActionNone, MoveToSlot(11))

	n, ok := ActionMoveToSlot7.SlotNumber()
	require.True(t, ok)
	assert.Equal(t, 7, n)

	b, ok := ActionCheckCall.Button()
	require.True(t, ok)
	assert.Equal(t, settings.ButtonCheckCall, b)

	_, ok = ActionToggle.Button()
	assert.False(t, ok)

	assert.True(t, ActionRaise.MovesToAmount())
	assert.False(t, ActionFold.MovesToAmount())
}

func TestParseBinding(t *testing.T) {
	cases := []struct {
		option string
		kind   Kind
		seq    string
	}{
		{"-", KindNone, ""},
		{"", KindNone, ""},
		{"a", KindKey, "a"},
		{"A", KindKey, "a"},
		{"F1", KindKey, "F1"},
		{"f12", KindKey, "F12"},
		{"Button.right", KindMouse, "3"},
		{"Button.middle", KindMouse, "2"},
		{"Button.x1", KindMouse, "8"},
		{"Button.x2", KindMouse, "9"},
	}
	for _, tc := range cases {
		b, err := ParseBinding(tc.option)
		require.NoError(t, err, tc.option)
		assert.Equal(t, tc.kind, b.Kind, tc.option)
		assert.Equal(t, tc.seq, b.Sequence(), tc.option)
	}

	for _, bad := range []string{"F13", "F0", "ctrl+a", "1", "Button.left"} {
		_, err := ParseBinding(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBindingMouseButtonValue(t *testing.T) {
	b, err := ParseBinding("Button.x1")
	require.NoError(t, err)
	assert.Equal(t, platform.ButtonX1, b.Button)
}

func TestOptionsAreAllParseable(t *testing.T) {
	opts := Options()
	assert.Len(t, opts, 1+4+26+12)
	for _, o := range opts {
		_, err := ParseBinding(o)
		assert.NoError(t, err, o)
	}
}

func TestParseBindingsSkipsUnbound(t *testing.T) {
	got, err := ParseBindings(settings.HotkeySettings{
		"FOLD":           "f",
		"CHECK_CALL":     "Button.x2",
		"BET":            "-",
		"ENABLE_DISABLE": "F9",
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "f", got[ActionFold].Key)
	assert.Equal(t, platform.ButtonX2, got[ActionCheckCall].Button)
}

func TestParseBindingsToggleRejectsMouseButtons(t *testing.T) {
	_, err := ParseBindings(settings.HotkeySettings{"ENABLE_DISABLE": "Button.x1"})
	assert.Error(t, err)
}

func TestParseBindingsCaseInsensitiveDuplicates(t *testing.T) {
	_, err := ParseBindings(settings.HotkeySettings{"FOLD": "a", "BET": "A"})
	var dup *settings.DuplicateHotkeysError
	assert.ErrorAs(t, err, &dup)
}

func TestParseBindingsUnknownAction(t *testing.T) {
	_, err := ParseBindings(settings.HotkeySettings{"SIT_OUT": "a"})
	assert.Error(t, err)
}

func TestBindingsSettingsListsEveryAction(t *testing.T) {
	b := Bindings{ActionFold: {Option: "F1", Kind: KindKey, Key: "F1"}}
	s := b.Settings()
	assert.Len(t, s, 15)
	assert.Equal(t, "F1", s["FOLD"])
	assert.Equal(t, settings.Unbound, s["RAISE"])
}
