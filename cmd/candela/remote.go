// Package main is the candela brightness daemon and its command-line client.
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frudas24/candela/internal/brightness"
)

// newSetCmd builds the set command.
func (c *cli) newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <percent>",
		Short: "Set brightness through the active mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("percent must be an integer: %w", err)
			}
			report, err := c.client().SetBrightness(cmd.Context(), percent)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// newToggleCmd builds the toggle command.
func (c *cli) newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Switch between software and hardware mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.client().ToggleMode(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printReport(out, resp.Reset)
			printState(out, resp.State)
			return nil
		},
	}
}

// newResetCmd builds the reset command.
func (c *cli) newResetCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore full brightness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := c.client().Reset(cmd.Context(), all)
			if err != nil {
				return err
			}
			for _, r := range reports {
				printReport(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset both software and hardware brightness")
	return cmd
}

// newStateCmd builds the state command.
func (c *cli) newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the active mode and level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.client().State(cmd.Context())
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

// printState writes the mode and level.
func printState(w io.Writer, st brightness.State) {
	level := "unknown"
	if st.Level != nil {
		level = strconv.Itoa(*st.Level) + "%"
	}
	fmt.Fprintf(w, "mode: %s\nlevel: %s\n", st.Mode, level)
}

// printReport writes one application outcome.
func printReport(w io.Writer, r brightness.Report) {
	if r.EnumerationError != "" {
		fmt.Fprintf(w, "%s %d%%: no displays (%s)\n", r.Mode, r.Percent, r.EnumerationError)
		return
	}
	fmt.Fprintf(w, "%s %d%%: applied %d/%d displays\n", r.Mode, r.Percent, r.Applied, r.Targets)
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Display, f.Error)
	}
}
