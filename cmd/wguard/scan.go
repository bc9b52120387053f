package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/wguard/internal/adapters/capture"
	"github.com/lcalzada-xor/wguard/internal/adapters/storage"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/services/session"
)

func scanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze Wi-Fi scans",
	}
	cmd.AddCommand(scanAnalyzeCmd(a))
	return cmd
}

// scanOutput is the --json shape of one analyzed scan.
type scanOutput struct {
	Timestamp time.Time              `json:"timestamp"`
	Networks  json.RawMessage        `json:"networks"`
	Changes   *domain.AnalysisResult `json:"changes,omitempty"`
}

func scanAnalyzeCmd(a *app) *cobra.Command {
	var (
		pcapPath    string
		withChanges bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Tag scans, store them and optionally report changes",
		Long: `Each FILE is a JSON array of network observations from one scan pass ("-" reads stdin).
Files are processed in order as consecutive scan cycles of one session.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var root domain.RootScanData
			if pcapPath != "" {
				summary, err := capture.ReadFile(ctx, pcapPath)
				if err != nil {
					return err
				}
				root = summary.RootScanData()
				slog.Info("Capture summarized",
					"packets", summary.Packets,
					"deauth", summary.DeauthFrames,
					"disassoc", summary.DisassocFrames,
					"probe_only", len(root.ProbeOnlySSIDs),
				)
			}

			svc := a.newSession(nil)
			seen := session.NewSeenNetworks()
			pinned := a.pinnedSet(ctx)

			for _, path := range args {
				data, err := readInput(cmd, path)
				if err != nil {
					return err
				}
				raw, err := storage.DecodeObservations(data, time.Now())
				if err != nil {
					return fmt.Errorf("decode %s: %w", path, err)
				}

				res, err := svc.RunCycle(ctx, raw, root, seen, withChanges)
				if err != nil {
					return err
				}

				if asJSON {
					if err := writeScanJSON(cmd, res); err != nil {
						return err
					}
					continue
				}
				a.printCycle(path, res, pinned)
			}

			if !asJSON && len(args) > 1 {
				a.ui.Title("Session %s: %d distinct networks, %d flagged", svc.ID()[:8], seen.Len(), len(seen.Flagged()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pcapPath, "pcap", "", "Capture file (pcap/pcapng) providing deauth and probe-response data")
	cmd.Flags().BoolVar(&withChanges, "changes", false, "Run change analysis after each scan")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) printCycle(path string, res session.CycleResult, pinned map[string]struct{}) {
	rec := res.Record
	a.ui.Title("%s: %d networks, %d flagged, %d new this session", path, len(rec.Networks), rec.FlaggedCount(), res.NewNetworks)
	a.ui.Networks(rec.Networks, a.vendors(rec.Networks), pinned)

	for _, n := range rec.Networks {
		if _, ok := pinned[n.Key()]; ok {
			a.ui.Warn("Pinned network %s (%s) is in range at %d dBm", n.Key(), n.SSID, n.RSSI)
		}
	}
	if res.Changes != nil {
		a.ui.Changes(*res.Changes)
	}
}

func writeScanJSON(cmd *cobra.Command, res session.CycleResult) error {
	networks, err := storage.EncodeObservations(res.Record.Networks)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(scanOutput{
		Timestamp: res.Record.Timestamp,
		Networks:  networks,
		Changes:   res.Changes,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// vendors resolves the manufacturer of every BSSID in networks.
func (a *app) vendors(networks []domain.NetworkObservation) map[string]string {
	out := make(map[string]string, len(networks))
	for _, n := range networks {
		if v := a.resolver.Lookup(n.BSSID); v != "" {
			out[n.Key()] = v
		}
	}
	return out
}
