package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the stored scan history",
	}
	cmd.AddCommand(historyListCmd(a), historyClearCmd(a))
	return cmd
}

func historyListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scan records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := a.store.LoadHistory()
			if len(history) == 0 {
				a.ui.Info("No scans stored in %s", a.store.Path())
				return nil
			}
			if limit > 0 && limit < len(history) {
				history = history[:limit]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIMESTAMP\tNETWORKS\tFLAGGED\tGPS")
			for _, r := range history {
				gps := 0
				for _, n := range r.Networks {
					if n.HasGPS() {
						gps++
					}
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Timestamp.Format("2006-01-02 15:04:05"), len(r.Networks), r.FlaggedCount(), gps)
			}
			tw.Flush()
			a.ui.Info("%d of at most %d records", len(a.store.LoadHistory()), a.store.MaxRecords())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many records")
	return cmd
}

func historyClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored scan record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear %s without --yes", a.store.Path())
			}
			if err := a.newSession(nil).ClearHistory(cmd.Context()); err != nil {
				return err
			}
			a.ui.Success("Scan history cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func changesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Report security-relevant changes across the stored history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.newSession(nil).Changes(cmd.Context())
			if asJSON {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			a.ui.Changes(result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}
