package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/overlay"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tiling"
)

func newLayoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage the table count and slot positions",
	}
	cmd.AddCommand(
		newLayoutShowCmd(a),
		newLayoutCountCmd(a),
		newLayoutGridCmd(a),
		newLayoutEditCmd(a),
	)
	return cmd
}

func newLayoutShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the slot origins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.store()
			if err != nil {
				return err
			}
			l, err := store.LoadLayout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tables: %d\n", l.TableCount)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SLOT\tLEFT\tTOP")
			for _, id := range l.SlotIDs() {
				o := l.Slots[id]
				fmt.Fprintf(tw, "%s\t%d\t%d\n", id, o.Left, o.Top)
			}
			return tw.Flush()
		},
	}
}

func newLayoutCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <n|+|->",
		Short: "Set the number of tables",
		Long: `Set the number of tables. "+" and "-" add or remove one. Added slots get
the position the grid would give them on the active monitor; removed
slots are forgotten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := a.store()
			if err != nil {
				return err
			}
			l, err := store.LoadLayout()
			if err != nil {
				return err
			}
			n, err := parseCount(args[0], l.TableCount)
			if err != nil {
				return err
			}
			table, err := store.LoadTable()
			if err != nil {
				return err
			}

			var origins []platform.Point
			if table.Configured() {
				if area, err := layoutArea(cfg); err == nil {
					opts, _ := layoutOptions(cfg)
					origins, _ = tiling.SlotOrigins(n, area, table.Size(), opts)
				}
			}
			place := func(i int) settings.SlotOrigin {
				if i-1 < len(origins) {
					return settings.SlotOrigin{Left: origins[i-1].X, Top: origins[i-1].Y}
				}
				return settings.SlotOrigin{}
			}
			if err := l.SetTableCount(n, place); err != nil {
				return err
			}
			if err := store.SaveLayout(l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table count set to %d\n", l.TableCount)
			return nil
		},
	}
}

// parseCount resolves "+", "-" or an absolute count against current.
func parseCount(arg string, current int) (int, error) {
	switch arg {
	case "+":
		return current + 1, nil
	case "-":
		if current <= 1 {
			return 0, errors.New("at least one table is required")
		}
		return current - 1, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid table count %q", arg)
	}
	if n < 1 {
		return 0, errors.New("at least one table is required")
	}
	return n, nil
}

func newLayoutGridCmd(a *app) *cobra.Command {
	var (
		mode   string
		region string
		gap    int
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Replace every slot origin with a grid on the active monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cfg, err := a.store()
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Layout.Mode = mode
			}
			if region != "" {
				cfg.Layout.Region = region
			}
			if cmd.Flags().Changed("gap") {
				cfg.Layout.Gap = gap
			}
			opts, err := layoutOptions(cfg)
			if err != nil {
				return err
			}

			table, err := store.LoadTable()
			if err != nil {
				return err
			}
			if !table.Configured() {
				return errors.New("table size is not set, run \"tabletile table find\" first")
			}
			l, err := store.LoadLayout()
			if err != nil {
				return err
			}
			area, err := layoutArea(cfg)
			if err != nil {
				return err
			}
			origins, err := tiling.SlotOrigins(l.TableCount, area, table.Size(), opts)
			if err != nil {
				return err
			}
			if err := l.SetOrigins(origins); err != nil {
				return err
			}
			if err := store.SaveLayout(l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "placed %d slots in %s (%s)\n", len(origins), area, opts.Mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "auto, horizontal, vertical or cascade (default from config)")
	cmd.Flags().StringVar(&region, "region", "", "full, left-half, right-half, top-half or bottom-half (default from config)")
	cmd.Flags().IntVar(&gap, "gap", 0, "pixels between slots (default from config)")
	return cmd
}

// layoutOptions builds tiling options from the layout config.
func layoutOptions(cfg *config.Config) (tiling.Options, error) {
	opts := tiling.DefaultOptions()
	m, err := tiling.ParseMode(cfg.Layout.Mode)
	if err != nil {
		return opts, err
	}
	if cfg.Layout.Gap < 0 {
		return opts, fmt.Errorf("gap must be >= 0")
	}
	opts.Mode = m
	opts.Gap = cfg.Layout.Gap
	return opts, nil
}

// layoutArea is the configured region of the active monitor.
func layoutArea(cfg *config.Config) (platform.Rect, error) {
	region, err := tiling.ParseRegion(cfg.Layout.Region)
	if err != nil {
		return platform.Rect{}, err
	}
	applyDisplayEnv(cfg)
	d, err := connectDesktop()
	if err != nil {
		return platform.Rect{}, err
	}
	defer d.Disconnect()
	display, err := d.ActiveDisplay()
	if err != nil {
		return platform.Rect{}, err
	}
	return tiling.ApplyRegion(display.Bounds, region), nil
}

func newLayoutEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Drag placeholder windows to position the slots",
		Long: `Open one placeholder window per slot at its stored origin, sized like a
table. Drag them into place, then press Enter to save their positions or
Esc to cancel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cfg, err := a.store()
			if err != nil {
				return err
			}
			table, err := store.LoadTable()
			if err != nil {
				return err
			}
			if !table.Configured() {
				return errors.New("table size is not set, run \"tabletile table find\" first")
			}
			l, err := store.LoadLayout()
			if err != nil {
				return err
			}
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("layout edit needs an interactive terminal")
			}

			applyDisplayEnv(cfg)
			backend, err := platform.NewLinuxBackendFromDisplay()
			if err != nil {
				return err
			}
			defer backend.Disconnect()

			origins := layoutOrigins(l)
			ph, err := overlay.OpenPlaceholders(backend, origins, table.Size())
			if err != nil {
				return err
			}
			go backend.EventLoop()
			defer backend.QuitEventLoop()
			defer ph.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "%d placeholders open. Enter saves, Esc cancels.\n", ph.Len())
			save, err := waitForConfirm(fd)
			if err != nil {
				return err
			}
			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled, layout unchanged")
				return nil
			}

			moved, err := ph.Origins()
			if err != nil {
				return err
			}
			if err := l.SetOrigins(moved); err != nil {
				return err
			}
			if err := store.SaveLayout(l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d slot origins\n", len(moved))
			return nil
		},
	}
}

// layoutOrigins returns the stored origins in slot order.
func layoutOrigins(l settings.LayoutSettings) []platform.Point {
	ids := l.SlotIDs()
	out := make([]platform.Point, 0, len(ids))
	for _, id := range ids {
		o := l.Slots[id]
		out = append(out, platform.Point{X: o.Left, Y: o.Top})
	}
	return out
}

// waitForConfirm reads keys in raw mode until Enter (true) or Esc, q or
// Ctrl-C (false).
func waitForConfirm(fd int) (bool, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return false, err
	}
	defer term.Restore(fd, state)

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return false, err
		}
		switch buf[0] {
		case '\r', '\n':
			return true, nil
		case 27, 3, 'q':
			return false, nil
		}
	}
}
