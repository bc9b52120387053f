package domain

import (
	"sort"
	"time"
)

// ReportMetadata identifies one generated report.
type ReportMetadata struct {
	ID          string
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	ScanPeriod  DateRange
}

// DateRange is the span of history a report covers.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ScanReport aggregates the latest tagged scan and the change analysis over history.
type ScanReport struct {
	Metadata ReportMetadata
	Latest   ScanRecord
	Changes  AnalysisResult
	// Vendors maps canonical BSSID to manufacturer; missing keys are unknown.
	Vendors map[string]string
	// Pinned holds the canonical BSSIDs the user tracks.
	Pinned map[string]struct{}
}

// ThreatStat counts how many networks carry one threat tag.
type ThreatStat struct {
	Threat ThreatType
	Count  int
}

// ThreatBreakdown returns per-tag counts for the latest scan, most frequent first.
func (r ScanReport) ThreatBreakdown() []ThreatStat {
	counts := make(map[ThreatType]int)
	for _, n := range r.Latest.Networks {
		for _, t := range n.Threats.Types() {
			counts[t]++
		}
	}

	stats := make([]ThreatStat, 0, len(counts))
	for t, c := range counts {
		stats = append(stats, ThreatStat{Threat: t, Count: c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Threat < stats[j].Threat
	})
	return stats
}

// SeverityCounts buckets the change events by severity.
func (r ScanReport) SeverityCounts() map[ChangeSeverity]int {
	out := map[ChangeSeverity]int{
		ChangeSeverityHigh:   0,
		ChangeSeverityMedium: 0,
		ChangeSeverityLow:    0,
	}
	for _, c := range r.Changes.Changes {
		out[c.Severity]++
	}
	return out
}

// OpenCount returns how many networks in the latest scan are open.
func (r ScanReport) OpenCount() int {
	n := 0
	for _, obs := range r.Latest.Networks {
		if obs.IsOpen() {
			n++
		}
	}
	return n
}
