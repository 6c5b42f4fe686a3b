// Package settings reads and writes the persisted table, layout and hotkey
// settings. Each file is a JSON object with a single wrapper key so older
// settings files keep loading.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	TableFile   = "table_settings.json"
	LayoutFile  = "layout_settings.json"
	HotkeysFile = "hotkey_settings.json"

	tableKey   = "table_configuration"
	layoutKey  = "layout_configuration"
	hotkeysKey = "hotkey_configuration"
)

// Files lists the settings file names.
var Files = []string{TableFile, LayoutFile, HotkeysFile}

// DefaultDir returns $XDG_CONFIG_HOME/tabletile.
func DefaultDir() string {
	return filepath.Join(xdg.ConfigHome, "tabletile")
}

// Store reads and writes settings in one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. An empty dir means DefaultDir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir}
}

// Dir returns the settings directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path of a settings file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadTable reads table settings, returning defaults when the file is missing.
func (s *Store) LoadTable() (TableSettings, error) {
	t := DefaultTableSettings()
	if err := s.read(TableFile, tableKey, &t); err != nil {
		return DefaultTableSettings(), err
	}
	if t.ButtonCoordinates == nil {
		t.ButtonCoordinates = make(map[Button]Offset)
	}
	if err := t.Validate(); err != nil {
		return DefaultTableSettings(), &FileError{Path: s.Path(TableFile), Err: err}
	}
	return t, nil
}

// SaveTable writes table settings.
func (s *Store) SaveTable(t TableSettings) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.write(TableFile, tableKey, t)
}

// LoadLayout reads layout settings, returning defaults when the file is
// missing.
func (s *Store) LoadLayout() (LayoutSettings, error) {
	l := DefaultLayoutSettings()
	if err := s.read(LayoutFile, layoutKey, &l); err != nil {
		return DefaultLayoutSettings(), err
	}
	if l.Slots == nil {
		l.Slots = make(map[string]SlotOrigin)
	}
	if err := l.Validate(); err != nil {
		return DefaultLayoutSettings(), &FileError{Path: s.Path(LayoutFile), Err: err}
	}
	return l, nil
}

// SaveLayout writes layout settings.
func (s *Store) SaveLayout(l LayoutSettings) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return s.write(LayoutFile, layoutKey, l)
}

// LoadHotkeys reads hotkey settings. A missing file yields an empty map.
func (s *Store) LoadHotkeys() (HotkeySettings, error) {
	h := make(HotkeySettings)
	if err := s.read(HotkeysFile, hotkeysKey, &h); err != nil {
		return make(HotkeySettings), err
	}
	if h == nil {
		h = make(HotkeySettings)
	}
	return h, nil
}

// SaveHotkeys validates and writes hotkey settings. Nothing is written when
// validation fails.
func (s *Store) SaveHotkeys(h HotkeySettings) error {
	if err := h.Validate(); err != nil {
		return err
	}
	return s.write(HotkeysFile, hotkeysKey, h)
}

func (s *Store) read(name, key string, v any) error {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return &FileError{Path: path, Err: err}
	}
	raw, ok := wrapper[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &FileError{Path: path, Err: fmt.Errorf("%s: %w", key, err)}
	}
	return nil
}

// write replaces the wrapper key in the file, keeping any other top-level
// keys, via a temp file and rename.
func (s *Store) write(name, key string, v any) error {
	path := s.Path(name)

	wrapper := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &wrapper); err != nil {
			wrapper = make(map[string]json.RawMessage)
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	wrapper[key] = raw

	out, err := json.MarshalIndent(wrapper, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	out = append(out, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
