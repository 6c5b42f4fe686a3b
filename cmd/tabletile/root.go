package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
)

const version = "dev"

// app carries the global flags to every subcommand.
type app struct {
	configPath  string
	settingsDir string
}

// desktop is what the one-shot commands need from the X server.
type desktop interface {
	platform.WindowSystem
	platform.Pointer
	platform.Displays
	Disconnect()
}

// connectDesktop is replaced in tests.
var connectDesktop = func() (desktop, error) {
	b, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tabletile",
		Short: "Seat poker table windows in fixed slots and drive them with hotkeys",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tabletile/config.yaml)")
	root.PersistentFlags().StringVar(&a.settingsDir, "settings-dir", "", "directory holding the table, layout and hotkey settings")

	root.AddCommand(
		newDaemonCmd(a),
		newStatusCmd(),
		newSlotsCmd(),
		newActionCmd(),
		newToggleCmd(),
		newReloadCmd(),
		newArrangeCmd(),
		newStopCmd(),
		newTableCmd(a),
		newLayoutCmd(a),
		newHotkeysCmd(a),
		newConfigCmd(a),
		newSettingsCmd(a),
		newPaletteCmd(),
		newMCPCmd(),
	)
	return root
}

// loadConfig reads the config from --config or the default location.
func (a *app) loadConfig() (*config.LoadResult, error) {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.LoadFromPath(path)
}

// store opens the settings directory: --settings-dir, then settings_dir
// from the config, then the default.
func (a *app) store() (*settings.Store, *config.Config, error) {
	res, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	dir := a.settingsDir
	if dir == "" {
		dir = res.Config.SettingsDir
	}
	return settings.NewStore(dir), res.Config, nil
}

// applyDisplayEnv points the X connection at the configured display.
func applyDisplayEnv(cfg *config.Config) {
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
