package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/settings"
)

func newHotkeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotkeys",
		Short: "Bind keys and mouse buttons to table actions",
	}
	cmd.AddCommand(
		newHotkeysListCmd(a),
		newHotkeysSetCmd(a),
		newHotkeysClearCmd(a),
		newHotkeysOptionsCmd(),
	)
	return cmd
}

// loadHotkeys reads the hotkey file with every known action present.
func loadHotkeys(store *settings.Store) (settings.HotkeySettings, error) {
	h, err := store.LoadHotkeys()
	if err != nil {
		return nil, err
	}
	out := hotkeys.DefaultHotkeys()
	for action, option := range h {
		out[action] = option
	}
	return out, nil
}

func newHotkeysListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every action and its hotkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.store()
			if err != nil {
				return err
			}
			h, err := loadHotkeys(store)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tHOTKEY")
			for _, action := range hotkeys.Actions() {
				fmt.Fprintf(tw, "%s\t%s\n", action, h[action.String()])
			}
			return tw.Flush()
		},
	}
}

func newHotkeysSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <action> <option>",
		Short: "Bind an option to an action",
		Long: `Bind an option to an action. Options are "-" (unbound), the letters A-Z,
F1-F12 and the mouse buttons Button.right, Button.x1, Button.x2 and
Button.middle. ENABLE_DISABLE only accepts keys. Run "tabletile reload"
for a running daemon to pick up the change.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := hotkeys.ParseAction(args[0])
			if err != nil {
				return err
			}
			binding, err := hotkeys.ParseBinding(args[1])
			if err != nil {
				return err
			}
			store, _, err := a.store()
			if err != nil {
				return err
			}
			h, err := loadHotkeys(store)
			if err != nil {
				return err
			}
			h[action.String()] = binding.Option
			if err := saveHotkeys(store, h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bound to %s\n", action, binding.Option)
			return nil
		},
	}
}

func newHotkeysClearCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear [action]",
		Short: "Unbind one action, or every action with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("give either an action or --all")
			}
			store, _, err := a.store()
			if err != nil {
				return err
			}
			if all {
				if err := saveHotkeys(store, hotkeys.DefaultHotkeys()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all hotkeys cleared")
				return nil
			}

			action, err := hotkeys.ParseAction(args[0])
			if err != nil {
				return err
			}
			h, err := loadHotkeys(store)
			if err != nil {
				return err
			}
			h[action.String()] = settings.Unbound
			if err := saveHotkeys(store, h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s unbound\n", action)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "unbind every action")
	return cmd
}

func newHotkeysOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the options an action can be bound to",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, o := range hotkeys.Options() {
				fmt.Fprintln(cmd.OutOrStdout(), o)
			}
		},
	}
}

// saveHotkeys rejects anything the daemon could not register.
func saveHotkeys(store *settings.Store, h settings.HotkeySettings) error {
	if _, err := hotkeys.ParseBindings(h); err != nil {
		return err
	}
	return store.SaveHotkeys(h)
}
