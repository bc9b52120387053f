package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/wguard/internal/adapters/reporting"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

func reportCmd(a *app) *cobra.Command {
	var out, title string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of the latest scan and the change analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			ctx := cmd.Context()

			svc := a.newSession(nil)
			history := svc.History()
			if len(history) == 0 {
				return fmt.Errorf("no scans stored in %s", a.store.Path())
			}

			report := &domain.ScanReport{
				Metadata: domain.ReportMetadata{
					ID:          uuid.NewString(),
					Title:       title,
					GeneratedAt: time.Now(),
					GeneratedBy: "wguard " + version,
					ScanPeriod: domain.DateRange{
						Start: history[len(history)-1].Timestamp,
						End:   history[0].Timestamp,
					},
				},
				Latest:  history[0],
				Changes: svc.Changes(ctx),
				Vendors: a.vendors(history[0].Networks),
				Pinned:  a.pinnedSet(ctx),
			}

			data, err := reporting.NewPDFExporter().ExportScanReport(report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			a.ui.Success("Report %s written to %s (%d bytes)", report.Metadata.ID[:8], out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output PDF path")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	return cmd
}
