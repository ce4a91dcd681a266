// Package main is the candela brightness daemon and its command-line client.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frudas24/candela/internal/config"
	"github.com/frudas24/candela/internal/monitor"
)

// newDisplaysCmd builds the local display listing command.
func (c *cli) newDisplaysCmd() *cobra.Command {
	var (
		output string
		device string
	)
	cmd := &cobra.Command{
		Use:   "displays",
		Short: "List gamma targets and DDC/CI monitors on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := c.logger(config.Config{})
			if err != nil {
				return err
			}
			enum, err := monitor.New(log)
			if err != nil {
				return err
			}
			listing, err := monitor.List(enum)
			if err != nil {
				return err
			}
			if device != "" {
				target, ok := monitor.FindTarget(listing.Displays, device)
				if !ok {
					return fmt.Errorf("display %q not found", device)
				}
				listing = monitor.Listing{Displays: []monitor.GammaTarget{target}}
			}
			return writeListing(cmd.OutOrStdout(), listing, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&device, "device", "", `show only this GDI device, e.g. \\.\DISPLAY1`)
	return cmd
}

// writeListing renders the listing in the requested format.
func writeListing(w io.Writer, listing monitor.Listing, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listing); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeListingText(w, listing)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeListingText renders aligned tables for both views.
func writeListingText(w io.Writer, listing monitor.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDEVICE\tPOSITION\tSIZE\tPRIMARY")
	for _, d := range listing.Displays {
		primary := ""
		if d.Primary {
			primary = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d,%d\t%dx%d\t%s\n", d.Index, d.DeviceName, d.X, d.Y, d.W, d.H, primary)
	}
	if len(listing.Physical) > 0 {
		fmt.Fprintln(tw, "")
		fmt.Fprintln(tw, "MONITOR\tBRIGHTNESS\t\t\t")
		for _, p := range listing.Physical {
			level := p.Error
			if p.Brightness != nil && p.MaxBrightness != nil {
				level = fmt.Sprintf("%d/%d", *p.Brightness, *p.MaxBrightness)
			}
			fmt.Fprintf(tw, "%s\t%s\t\t\t\n", p.Description, level)
		}
	}
	return tw.Flush()
}
