package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import external survey data",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "wigle FILE",
			Short: "Merge a WiGLE CSV export into the scan history by day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				summary, err := a.newSession(nil).ImportWigle(cmd.Context(), f)
				if err != nil {
					return err
				}
				a.ui.Success("Imported %d rows (%d skipped), %d new networks", summary.Imported, summary.Skipped, summary.Added)
				return nil
			},
		},
		&cobra.Command{
			Use:   "opencellid FILE",
			Short: "Store cell towers from an OpenCellID CSV export",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.sqlite()
				if err != nil {
					return err
				}
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				summary, err := a.newSession(db).ImportOpenCellID(cmd.Context(), f)
				if err != nil {
					return err
				}
				a.ui.Success("Imported %d towers (%d skipped)", summary.Imported, summary.Skipped)
				return nil
			},
		},
	)
	return cmd
}

func cellsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Inspect imported cell towers",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored cell towers, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.sqlite()
			if err != nil {
				return err
			}
			towers, total, err := a.newSession(db).CellTowers(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if total == 0 {
				a.ui.Info("No cell towers stored")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RADIO\tMCC\tMNC\tLAC\tCID\tLAT\tLON\tRANGE")
			for _, t := range towers {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.5f\t%.5f\t%d\n", t.Radio, t.MCC, t.MNC, t.LAC, t.CID, t.Latitude, t.Longitude, t.Range)
			}
			tw.Flush()
			a.ui.Info("%d of %d towers", len(towers), total)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Show at most this many towers (0 for all)")

	cmd.AddCommand(list)
	return cmd
}
