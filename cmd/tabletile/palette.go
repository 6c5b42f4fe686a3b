package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/palette"
)

func newPaletteCmd() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Pick a table action from a launcher menu",
		Long: `Show every table action and slot in rofi, fuzzel, wofi or dmenu and send
the chosen one to the running daemon. Bind this command to a desktop
shortcut for actions that have no hotkey.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := palette.NewBackend(backend)
			if err != nil {
				return err
			}
			client := ipc.NewClient()
			status, err := client.GetStatus()
			if err != nil {
				return err
			}
			slots, err := client.ListSlots()
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("%d of %d tables seated", status.Seated, status.TableCount)
			item, err := b.Show("tabletile", palette.ActionItems(slots, status.HotkeysEnabled), msg)
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			return client.PerformAction(item.Action)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "auto", "launcher to use: auto, rofi, fuzzel, wofi or dmenu")
	return cmd
}
