package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pid:             %d\n", st.PID)
			fmt.Fprintf(out, "hotkeys_enabled: %v\n", st.HotkeysEnabled)
			fmt.Fprintf(out, "browser:         %s\n", st.Browser)
			fmt.Fprintf(out, "search_string:   %s\n", st.SearchString)
			fmt.Fprintf(out, "tables:          %d seated, %d tracked, %d slots\n", st.Seated, st.Tracked, st.TableCount)
			if len(st.Unassigned) > 0 {
				fmt.Fprintf(out, "waiting:         %v\n", st.Unassigned)
			}
			fmt.Fprintf(out, "uptime_seconds:  %d\n", st.UptimeSeconds)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List slots and the tables seated in them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slots, err := ipc.NewClient().ListSlots()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), slots)
			}
			printSlots(cmd, slots)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSlots(cmd *cobra.Command, slots []ipc.SlotInfo) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tGEOMETRY\tWINDOW\tTITLE")
	for _, s := range slots {
		window := "-"
		if s.Window != 0 {
			window = fmt.Sprintf("%d", s.Window)
		}
		fmt.Fprintf(tw, "%s\t%dx%d+%d+%d\t%s\t%s\n", s.ID, s.Width, s.Height, s.X, s.Y, window, s.Title)
	}
	tw.Flush()
}

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <name>",
		Short: "Perform a table action as if its hotkey was pressed",
		Long: `Perform a table action as if its hotkey was pressed. Click actions
(FOLD, CHECK_CALL, BET, RAISE) apply to the table under the pointer.
MOVE_TO_SLOT_n moves the pointer to slot n. ENABLE_DISABLE toggles hotkeys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().PerformAction(strings.ToUpper(args[0]))
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "toggle [on|off]",
		Short:     "Start or stop the hotkeys",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			want, err := parseToggle(arg)
			if err != nil {
				return err
			}
			enabled, err := ipc.NewClient().Toggle(want)
			if err != nil {
				return err
			}
			if enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "hotkeys on")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "hotkeys off")
			}
			return nil
		},
	}
}

// parseToggle maps "on"/"off" to a state and "" to a flip (nil).
func parseToggle(arg string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return nil, nil
	case "on", "enable", "start":
		v := true
		return &v, nil
	case "off", "disable", "stop":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("expected on or off, got %q", arg)
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the settings files in the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ipc.NewClient().Reload()
		},
	}
}

func newArrangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arrange",
		Short: "Re-seat every open table from scratch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ipc.NewClient().Arrange()
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ipc.NewClient().Shutdown(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "daemon stopping")
			return nil
		},
	}
}
