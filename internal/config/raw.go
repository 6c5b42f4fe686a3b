package config

import "time"

// The raw types mirror Config with pointer fields so a file only overrides
// the keys it sets.

type RawOverlayColors struct {
	Occupied *string `yaml:"occupied"`
	Empty    *string `yaml:"empty"`
	HintText *string `yaml:"hint_text"`
	HintBg   *string `yaml:"hint_background"`
}

type RawOverlay struct {
	Enabled     *bool             `yaml:"enabled"`
	BorderWidth *int              `yaml:"border_width"`
	ShowHint    *bool             `yaml:"show_hint"`
	Colors      *RawOverlayColors `yaml:"colors"`
}

type RawLayout struct {
	Mode   *string `yaml:"mode"`
	Region *string `yaml:"region"`
	Gap    *int    `yaml:"gap"`
}

type RawConfig struct {
	Browser      *string        `yaml:"browser"`
	PollInterval *time.Duration `yaml:"poll_interval"`
	LogLevel     *string        `yaml:"log_level"`
	SettingsDir  *string        `yaml:"settings_dir"`
	QueueSize    *int           `yaml:"queue_size"`
	ActionDelay  *time.Duration `yaml:"action_delay"`
	Display      *string        `yaml:"display"`
	XAuthority   *string        `yaml:"xauthority"`
	Overlay      *RawOverlay    `yaml:"overlay"`
	Layout       *RawLayout     `yaml:"layout"`
}

// apply copies every set field onto cfg.
func (r RawConfig) apply(cfg *Config) {
	set(&cfg.Browser, r.Browser)
	set(&cfg.PollInterval, r.PollInterval)
	set(&cfg.LogLevel, r.LogLevel)
	set(&cfg.SettingsDir, r.SettingsDir)
	set(&cfg.QueueSize, r.QueueSize)
	set(&cfg.ActionDelay, r.ActionDelay)
	set(&cfg.Display, r.Display)
	set(&cfg.XAuthority, r.XAuthority)

	if o := r.Overlay; o != nil {
		set(&cfg.Overlay.Enabled, o.Enabled)
		set(&cfg.Overlay.BorderWidth, o.BorderWidth)
		set(&cfg.Overlay.ShowHint, o.ShowHint)
		if c := o.Colors; c != nil {
			set(&cfg.Overlay.Colors.Occupied, c.Occupied)
			set(&cfg.Overlay.Colors.Empty, c.Empty)
			set(&cfg.Overlay.Colors.HintText, c.HintText)
			set(&cfg.Overlay.Colors.HintBg, c.HintBg)
		}
	}

	if l := r.Layout; l != nil {
		set(&cfg.Layout.Mode, l.Mode)
		set(&cfg.Layout.Region, l.Region)
		set(&cfg.Layout.Gap, l.Gap)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
