package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/tui"
)

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit table, layout and hotkey settings in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.store()
			if err != nil {
				return err
			}
			return tui.Run(store, ipc.NewClient())
		},
	}
}
