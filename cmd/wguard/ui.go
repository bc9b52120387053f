package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// ui prints command output with severity colors.
type ui struct {
	w      io.Writer
	red    *color.Color
	orange *color.Color
	green  *color.Color
	cyan   *color.Color
	bold   *color.Color
	faint  *color.Color
}

func newUI(w io.Writer) *ui {
	return &ui{
		w:      w,
		red:    color.New(color.FgRed, color.Bold),
		orange: color.New(color.FgHiYellow),
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
	}
}

func (u *ui) Title(format string, args ...any) {
	u.bold.Fprintf(u.w, format+"\n", args...)
}

func (u *ui) Info(format string, args ...any) {
	u.cyan.Fprintf(u.w, format+"\n", args...)
}

func (u *ui) Success(format string, args ...any) {
	u.green.Fprintf(u.w, format+"\n", args...)
}

func (u *ui) Warn(format string, args ...any) {
	u.orange.Fprintf(u.w, format+"\n", args...)
}

func (u *ui) severity(s domain.ChangeSeverity) *color.Color {
	switch s {
	case domain.ChangeSeverityHigh:
		return u.red
	case domain.ChangeSeverityMedium:
		return u.orange
	default:
		return u.green
	}
}

// Networks prints one tagged scan as a table.
func (u *ui) Networks(networks []domain.NetworkObservation, vendors map[string]string, pinned map[string]struct{}) {
	tw := tabwriter.NewWriter(u.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SSID\tBSSID\tVENDOR\tCHANNEL\tRSSI\tSECURITY\tTHREATS")
	for _, n := range networks {
		ssid := n.SSID
		if !n.HasSSID() {
			ssid = "<hidden>"
		}
		bssid := n.Key()
		if _, ok := pinned[bssid]; ok {
			bssid += " *"
		}
		vendor := vendors[n.Key()]
		if vendor == "" {
			vendor = "-"
		}
		threats := "-"
		if n.IsFlagged() {
			threats = u.threatColor(n.Threats.Len()).Sprint(strings.Join(n.Threats.Names(), ","))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			ssid, bssid, vendor, domain.ChannelLabel(n.Frequency), n.RSSI,
			domain.ClassifySecurity(n.Capabilities), threats)
	}
	tw.Flush()
}

func (u *ui) threatColor(count int) *color.Color {
	switch {
	case count >= 3:
		return u.red
	case count == 2:
		return u.orange
	default:
		return u.cyan
	}
}

// Changes prints scored change events, highest score first.
func (u *ui) Changes(result domain.AnalysisResult) {
	if len(result.Changes) == 0 {
		u.Success("No significant changes across %d records", result.RecordsAnalyzed)
		return
	}
	u.Title("%d changes across %d records", result.ChangeCount, result.RecordsAnalyzed)
	for _, c := range result.Changes {
		u.severity(c.Severity).Fprintf(u.w, "[%-6s %3d] ", strings.ToUpper(string(c.Severity)), c.Score)
		fmt.Fprintf(u.w, "%s %s", c.Type, c.BSSID)
		if c.SSID != "" {
			fmt.Fprintf(u.w, " (%s)", c.SSID)
		}
		fmt.Fprintln(u.w)
		u.faint.Fprintf(u.w, "    %s\n", c.Description)
	}
}
