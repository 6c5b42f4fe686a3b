package tui

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/settings"
)

// draft is the in-memory copy of the three settings files being edited.
type draft struct {
	Table   settings.TableSettings  `json:"table"`
	Layout  settings.LayoutSettings `json:"layout"`
	Hotkeys settings.HotkeySettings `json:"hotkeys"`
}

func loadDraft(store *settings.Store) (draft, error) {
	d := draft{
		Table:   settings.DefaultTableSettings(),
		Layout:  settings.DefaultLayoutSettings(),
		Hotkeys: hotkeys.DefaultHotkeys(),
	}
	if store == nil {
		return d, nil
	}

	var err error
	if d.Table, err = store.LoadTable(); err != nil {
		return d, err
	}
	if d.Layout, err = store.LoadLayout(); err != nil {
		return d, err
	}
	loaded, err := store.LoadHotkeys()
	if err != nil {
		return d, err
	}
	if len(loaded) > 0 {
		d.Hotkeys = loaded
	}
	return d, nil
}

func (d draft) clone() draft {
	out := draft{
		Table:   d.Table,
		Layout:  d.Layout,
		Hotkeys: d.Hotkeys.Clone(),
	}
	out.Table.ButtonCoordinates = maps.Clone(d.Table.ButtonCoordinates)
	out.Layout.Slots = maps.Clone(d.Layout.Slots)
	return out
}

// validate runs the same checks the daemon applies on load, so a draft
// that passes here is accepted by the daemon.
func (d draft) validate() error {
	if err := d.Table.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if err := d.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if _, err := hotkeys.ParseBindings(d.Hotkeys); err != nil {
		return err
	}
	return nil
}

func (d draft) save(store *settings.Store) error {
	if err := d.validate(); err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no settings directory")
	}
	if err := store.SaveTable(d.Table); err != nil {
		return err
	}
	if err := store.SaveLayout(d.Layout); err != nil {
		return err
	}
	return store.SaveHotkeys(d.Hotkeys)
}

// draftFile is one settings file as it would be written.
type draftFile struct {
	name string
	body string
}

// files renders each section under the file name it is saved to.
func (d draft) files() []draftFile {
	sections := []struct {
		name string
		v    any
	}{
		{settings.TableFile, d.Table},
		{settings.LayoutFile, d.Layout},
		{settings.HotkeysFile, d.Hotkeys},
	}
	out := make([]draftFile, 0, len(sections))
	for _, sec := range sections {
		data, err := json.MarshalIndent(sec.v, "", "  ")
		if err != nil {
			continue
		}
		out = append(out, draftFile{name: sec.name, body: string(data)})
	}
	return out
}

// render returns the whole draft as indented JSON.
func (d draft) render() string {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
