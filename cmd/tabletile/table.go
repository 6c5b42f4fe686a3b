package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tables"
)

func newTableCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Record the reference table size and button positions",
	}
	cmd.AddCommand(
		newTableFindCmd(a),
		newTableGrabCmd(a),
		newTableShowCmd(a),
		newTableSearchCmd(a),
	)
	return cmd
}

func newTableFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <title>",
		Short: "Find a table window by title, focus it and record its size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := a.store()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")

			applyDisplayEnv(cfg)
			d, err := connectDesktop()
			if err != nil {
				return err
			}
			defer d.Disconnect()

			w, err := tables.FindTable(d, title)
			if errors.Is(err, tables.ErrNoTableFound) {
				return fmt.Errorf("no table window title contains %q", title)
			}
			if err != nil {
				return err
			}

			t, err := store.LoadTable()
			if err != nil {
				return err
			}
			t.Width, t.Height = w.Bounds.Width, w.Bounds.Height
			if err := store.SaveTable(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "found %q (window %d), table size %dx%d saved\n", w.Title, w.ID, t.Width, t.Height)
			return nil
		},
	}
}

func newTableGrabCmd(a *app) *cobra.Command {
	var (
		delay time.Duration
		title string
	)
	cmd := &cobra.Command{
		Use:   "grab <button>",
		Short: "Record a button position from the mouse pointer",
		Long: `Record a button position from the mouse pointer. Hover the pointer over
the button on a table before the delay runs out. The position is stored
relative to the table window: the one whose title contains --title, or
the focused window.

Buttons: FOLD, CHECK_CALL, BET, RAISE, AMOUNT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			button, err := settings.ParseButton(args[0])
			if err != nil {
				return err
			}
			store, cfg, err := a.store()
			if err != nil {
				return err
			}

			applyDisplayEnv(cfg)
			d, err := connectDesktop()
			if err != nil {
				return err
			}
			defer d.Disconnect()

			if delay > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "hover over %s, reading the pointer in %s...\n", button, delay)
				select {
				case <-time.After(delay):
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}

			pos, err := d.Position()
			if err != nil {
				return err
			}
			ref, err := referenceBounds(d, title)
			if err != nil {
				return err
			}

			t, err := store.LoadTable()
			if err != nil {
				return err
			}
			if err := t.SetButton(button, pos, ref); err != nil {
				if errors.Is(err, settings.ErrButtonOutsideWindow) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Button coordinate is outside the target window")
				}
				return fmt.Errorf("grab %s: %w", button, err)
			}
			if !t.Configured() {
				t.Width, t.Height = ref.Width, ref.Height
			}
			if err := store.SaveTable(t); err != nil {
				return err
			}
			o, _ := t.ButtonOffset(button)
			fmt.Fprintf(cmd.OutOrStdout(), "%s saved at offset %d,%d\n", button, o.X, o.Y)
			return nil
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 3*time.Second, "time to position the pointer")
	cmd.Flags().StringVar(&title, "title", "", "title of the reference table window (default: focused window)")
	return cmd
}

// referenceBounds returns the bounds of the window titled title, or of the
// focused window when title is empty.
func referenceBounds(d desktop, title string) (platform.Rect, error) {
	if title != "" {
		w, err := tables.FindTable(d, title)
		if errors.Is(err, tables.ErrNoTableFound) {
			return platform.Rect{}, fmt.Errorf("no table window title contains %q", title)
		}
		if err != nil {
			return platform.Rect{}, err
		}
		return w.Bounds, nil
	}
	id, err := d.ActiveWindow()
	if err != nil {
		return platform.Rect{}, err
	}
	if id == platform.None {
		return platform.Rect{}, errors.New("no focused window")
	}
	return d.WindowBounds(id)
}

func newTableShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the table settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.store()
			if err != nil {
				return err
			}
			t, err := store.LoadTable()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:          %s\n", store.Path(settings.TableFile))
			fmt.Fprintf(out, "search_string: %q\n", t.SearchString)
			fmt.Fprintf(out, "size:          %dx%d\n", t.Width, t.Height)
			for _, b := range settings.Buttons {
				if o, ok := t.ButtonOffset(b); ok {
					fmt.Fprintf(out, "%-14s %d,%d\n", string(b)+":", o.X, o.Y)
				} else {
					fmt.Fprintf(out, "%-14s not set\n", string(b)+":")
				}
			}
			return nil
		},
	}
}

func newTableSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [text]",
		Short: "Show or set the text a table tab title must contain",
		Long: `Show or set the text a table tab title must contain. With no argument
the current value is printed; an empty string ("") matches every tab.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := a.store()
			if err != nil {
				return err
			}
			t, err := store.LoadTable()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), t.SearchString)
				return nil
			}
			t.SearchString = args[0]
			if err := store.SaveTable(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "search string set to %q\n", t.SearchString)
			return nil
		},
	}
}
