package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/wguard/internal/adapters/fingerprint"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

func ouiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oui",
		Short: "Resolve BSSID manufacturers",
	}

	lookup := &cobra.Command{
		Use:   "lookup BSSID...",
		Short: "Print the manufacturer of each BSSID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				bssid := domain.NormalizeBSSID(arg)
				vendor := a.resolver.Lookup(bssid)
				switch {
				case !domain.IsValidBSSID(bssid):
					a.ui.Warn("%s: not a BSSID", arg)
				case vendor == "":
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tunknown\n", bssid)
				default:
					note := ""
					if domain.IsLocallyAdministered(bssid) {
						note = " (locally administered)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", bssid, vendor, note)
				}
			}
			slog.Debug("OUI table", "source", a.resolver.Source(), "entries", a.resolver.Len())
			return nil
		},
	}

	var from string
	refresh := &cobra.Command{
		Use:   "refresh --from FILE",
		Short: "Replace the OUI cache with a KEY=VALUE table, IEEE text dump or registry CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				return errors.New("--from is required")
			}
			data, err := os.ReadFile(from)
			if err != nil {
				return err
			}
			if strings.EqualFold(filepath.Ext(from), ".csv") {
				converted, dropped, err := fingerprint.ConvertCSV(bytes.NewReader(data))
				if err != nil {
					return err
				}
				slog.Info("Converted OUI registry CSV", "file", from, "dropped", dropped)
				data = converted
			}
			n, err := a.resolver.Refresh(data)
			if err != nil {
				var verr *fingerprint.ValidationError
				if errors.As(err, &verr) {
					slog.Warn("OUI refresh refused", "file", from, "entries", verr.Value)
				}
				return err
			}
			a.ui.Success("OUI cache updated with %d entries", n)
			return nil
		},
	}
	refresh.Flags().StringVar(&from, "from", "", "Table file to install")

	cmd.AddCommand(lookup, refresh)
	return cmd
}
