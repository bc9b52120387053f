package threat

import (
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
)

// Analyzer tags the networks of one fresh scan using the stored history.
// It performs no I/O and keeps no state between calls.
type Analyzer struct {
	cfg       Config
	clock     ports.Clock
	detectors []detector
}

// NewAnalyzer creates an analyzer with every default detector registered.
// A nil clock falls back to the wall clock.
func NewAnalyzer(cfg Config, clock ports.Clock) *Analyzer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Analyzer{
		cfg:       cfg.withDefaults(),
		clock:     clock,
		detectors: defaultDetectors(),
	}
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze tags current against history, with "now" taken from the analyzer clock.
func (a *Analyzer) Analyze(current []domain.NetworkObservation, history []domain.ScanRecord, root domain.RootScanData) []domain.NetworkObservation {
	return a.AnalyzeAt(a.clock.Now(), current, history, root)
}

// AnalyzeAt is Analyze with an explicit reference time for the recency window.
// The returned slice is a copy; tags already present on the input are kept.
func (a *Analyzer) AnalyzeAt(now time.Time, current []domain.NetworkObservation, history []domain.ScanRecord, root domain.RootScanData) []domain.NetworkObservation {
	out := make([]domain.NetworkObservation, len(current))
	copy(out, current)
	if len(out) == 0 {
		return out
	}

	sc := newScanContext(a.cfg, now, out, history, root)
	for i := range out {
		tags := out[i].Threats
		for _, d := range a.detectors {
			if d.Detect(out[i], sc) {
				tags = tags.With(d.Threat())
			}
		}
		out[i].Threats = tags
	}
	return out
}
