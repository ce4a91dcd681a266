// Package main is the candela brightness daemon and its command-line client.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frudas24/candela/internal/autostart"
)

// newAutostartCmd builds the start-on-login commands.
func (c *cli) newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting the daemon when you log in",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start `candela serve` on login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
				if resolved, err := filepath.EvalSymlinks(exe); err == nil {
					exe = resolved
				}
				if err := autostart.Enable(exe, "serve"); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled: %s\n", autostart.Command(exe, "serve"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop starting the daemon on login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := autostart.Disable(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the daemon starts on login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				st, err := autostart.Current()
				if err != nil {
					return err
				}
				if !st.Enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "autostart: disabled")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart: enabled (%s)\n", st.Command)
				return nil
			},
		},
	)
	return cmd
}
