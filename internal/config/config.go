// Package config loads the daemon configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OverlayColors are "#rrggbb" border colors.
type OverlayColors struct {
	Occupied string `yaml:"occupied"`
	Empty    string `yaml:"empty"`
	HintText string `yaml:"hint_text"`
	HintBg   string `yaml:"hint_background"`
}

// OverlayConfig controls the slot outline overlay.
type OverlayConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BorderWidth int           `yaml:"border_width"`
	ShowHint    bool          `yaml:"show_hint"`
	Colors      OverlayColors `yaml:"colors"`
}

// LayoutConfig holds the defaults used when slot origins are generated.
type LayoutConfig struct {
	Mode   string `yaml:"mode"`   // auto, horizontal, vertical, cascade
	Region string `yaml:"region"` // full, left-half, right-half, top-half, bottom-half
	Gap    int    `yaml:"gap"`
}

// Config is the effective daemon configuration.
type Config struct {
	Browser      string        `yaml:"browser"`
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLevel     string        `yaml:"log_level"`
	SettingsDir  string        `yaml:"settings_dir,omitempty"`
	QueueSize    int           `yaml:"queue_size"`
	ActionDelay  time.Duration `yaml:"action_delay"`
	Display      string        `yaml:"display,omitempty"`
	XAuthority   string        `yaml:"xauthority,omitempty"`
	Overlay      OverlayConfig `yaml:"overlay"`
	Layout       LayoutConfig  `yaml:"layout"`
}

func DefaultConfig() *Config {
	return &Config{
		Browser:      "chrome",
		PollInterval: 200 * time.Millisecond,
		LogLevel:     "info",
		QueueSize:    8,
		ActionDelay:  30 * time.Millisecond,
		Overlay: OverlayConfig{
			Enabled:     false,
			BorderWidth: 3,
			ShowHint:    true,
			Colors: OverlayColors{
				Occupied: "#27ae60",
				Empty:    "#7f8c8d",
				HintText: "#f5f7fa",
				HintBg:   "#1f2933",
			},
		},
		Layout: LayoutConfig{
			Mode:   "auto",
			Region: "full",
			Gap:    4,
		},
	}
}

// ValidationError points at the offending config key and, when known, the
// file position it came from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Browser) {
	case "chrome", "chromium", "firefox":
	default:
		return &ValidationError{Path: "browser", Err: fmt.Errorf("browser must be one of: chrome, chromium, firefox")}
	}
	if c.PollInterval < 10*time.Millisecond {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be at least 10ms")}
	}
	if !validLogLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.QueueSize < 1 {
		return &ValidationError{Path: "queue_size", Err: fmt.Errorf("queue_size must be >= 1")}
	}
	if c.ActionDelay < 0 {
		return &ValidationError{Path: "action_delay", Err: fmt.Errorf("action_delay must be >= 0")}
	}
	if c.Overlay.BorderWidth < 1 {
		return &ValidationError{Path: "overlay.border_width", Err: fmt.Errorf("border_width must be >= 1")}
	}
	colors := map[string]string{
		"overlay.colors.occupied":        c.Overlay.Colors.Occupied,
		"overlay.colors.empty":           c.Overlay.Colors.Empty,
		"overlay.colors.hint_text":       c.Overlay.Colors.HintText,
		"overlay.colors.hint_background": c.Overlay.Colors.HintBg,
	}
	for path, value := range colors {
		if _, err := ParseColor(value); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}
	switch c.Layout.Mode {
	case "auto", "horizontal", "vertical", "cascade":
	default:
		return &ValidationError{Path: "layout.mode", Err: fmt.Errorf("invalid mode %q", c.Layout.Mode)}
	}
	switch c.Layout.Region {
	case "full", "left-half", "right-half", "top-half", "bottom-half":
	default:
		return &ValidationError{Path: "layout.region", Err: fmt.Errorf("invalid region type %q", c.Layout.Region)}
	}
	if c.Layout.Gap < 0 {
		return &ValidationError{Path: "layout.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	return nil
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// ParseColor converts "#rrggbb" to a 0xRRGGBB pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	return uint32(v), nil
}

// Save writes the configuration to the standard location.
//
// Comments in an existing file are not preserved.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
