package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/wguard/internal/adapters/storage"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

func pinCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Track specific BSSIDs across scans",
	}

	var ssid, note string
	add := &cobra.Command{
		Use:   "add BSSID",
		Short: "Pin a BSSID, or update the SSID and note of an existing pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.sqlite()
			if err != nil {
				return err
			}
			pin, err := db.PinNetwork(cmd.Context(), domain.PinnedNetwork{BSSID: args[0], SSID: ssid, Note: note})
			if err != nil {
				return err
			}
			a.ui.Success("Pinned %s (%s)", pin.BSSID, pin.ID[:8])
			return nil
		},
	}
	add.Flags().StringVar(&ssid, "ssid", "", "SSID the BSSID is expected to broadcast")
	add.Flags().StringVar(&note, "note", "", "Free-form note")

	remove := &cobra.Command{
		Use:   "remove BSSID",
		Short: "Stop tracking a BSSID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.sqlite()
			if err != nil {
				return err
			}
			err = db.UnpinNetwork(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotPinned) {
				a.ui.Warn("%s is not pinned", domain.NormalizeBSSID(args[0]))
				return nil
			}
			if err != nil {
				return err
			}
			a.ui.Success("Unpinned %s", domain.NormalizeBSSID(args[0]))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pinned BSSIDs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.sqlite()
			if err != nil {
				return err
			}
			pins, err := db.ListPinned(cmd.Context())
			if err != nil {
				return err
			}
			if len(pins) == 0 {
				a.ui.Info("No pinned networks")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BSSID\tSSID\tVENDOR\tPINNED\tNOTE")
			for _, p := range pins {
				vendor := a.resolver.Lookup(p.BSSID)
				if vendor == "" {
					vendor = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.BSSID, p.SSID, vendor, p.PinnedAt.Format("2006-01-02 15:04"), p.Note)
			}
			tw.Flush()
			return nil
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}
