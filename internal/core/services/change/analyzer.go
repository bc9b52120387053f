package change

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/geo"
)

// Analyzer derives scored change events from a sequence of scan records.
// It holds no state between calls; results are recomputed from history every time.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates a change analyzer. Zero fields in cfg take their defaults.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// AnalyzeScan analyzes current as if it had been stored at time at, without persisting it.
func (a *Analyzer) AnalyzeScan(current []domain.NetworkObservation, at time.Time, history []domain.ScanRecord) domain.AnalysisResult {
	records := make([]domain.ScanRecord, 0, len(history)+1)
	records = append(records, domain.NewScanRecord(at, current))
	records = append(records, history...)
	return a.Analyze(records)
}

// Analyze compares each BSSID's newest and oldest sightings across records.
// Fewer than two records yields an empty result.
func (a *Analyzer) Analyze(history []domain.ScanRecord) domain.AnalysisResult {
	result := domain.AnalysisResult{
		Changes:         []domain.NetworkChange{},
		RecordsAnalyzed: len(history),
	}
	if len(history) < 2 {
		return result
	}

	records := make([]domain.ScanRecord, len(history))
	copy(records, history)
	domain.SortNewestFirst(records)
	detectedAt := records[0].Timestamp

	tl := buildTimeline(records)

	var changes []domain.NetworkChange
	emit := func(c domain.NetworkChange, likelihood, confidence float64) {
		c.DetectedAt = detectedAt
		c.Score = Score(c.Type, likelihood, confidence)
		c.Severity = domain.SeverityForScore(c.Score)
		if c.Score >= a.cfg.MinScore {
			changes = append(changes, c)
		}
	}

	for _, bssid := range tl.order {
		entries := tl.entries[bssid]
		if len(entries) < 2 {
			continue
		}
		newest, oldest := entries[0].obs, entries[len(entries)-1].obs

		a.compareSecurity(bssid, oldest, newest, emit)
		a.compareChannel(bssid, oldest, newest, emit)
		a.compareSignal(bssid, oldest, newest, emit)
		a.compareCapabilities(bssid, oldest, newest, emit)
		a.checkFollowing(bssid, entries, emit)
	}

	a.checkNewBSSIDs(records, emit)

	sort.SliceStable(changes, func(i, j int) bool {
		ci, cj := changes[i], changes[j]
		if ci.Score != cj.Score {
			return ci.Score > cj.Score
		}
		if ci.Type != cj.Type {
			return ci.Type < cj.Type
		}
		return ci.BSSID < cj.BSSID
	})

	result.Changes = changes
	if result.Changes == nil {
		result.Changes = []domain.NetworkChange{}
	}
	result.ChangeCount = len(result.Changes)
	return result
}

type emitFunc func(c domain.NetworkChange, likelihood, confidence float64)

func (a *Analyzer) compareSecurity(bssid string, oldest, newest domain.NetworkObservation, emit emitFunc) {
	before := domain.ClassifySecurity(oldest.Capabilities)
	after := domain.ClassifySecurity(newest.Capabilities)
	if before == after {
		return
	}

	c := domain.NetworkChange{
		SSID:          newest.SSID,
		BSSID:         bssid,
		PreviousValue: before.String(),
		CurrentValue:  after.String(),
	}
	if after < before {
		drop := float64(before - after)
		c.Type = domain.ChangeSecurityDowngrade
		c.Description = fmt.Sprintf("%s dropped from %s to %s", label(newest), before, after)
		emit(c, math.Min(1, 0.35+0.1*drop), 0.9)
		return
	}
	c.Type = domain.ChangeSecurityUpgrade
	c.Description = fmt.Sprintf("%s upgraded from %s to %s", label(newest), before, after)
	emit(c, 0.3, 0.9)
}

func (a *Analyzer) compareChannel(bssid string, oldest, newest domain.NetworkObservation, emit emitFunc) {
	before, ok1 := domain.ChannelForFrequency(oldest.Frequency)
	after, ok2 := domain.ChannelForFrequency(newest.Frequency)
	if !ok1 || !ok2 {
		return
	}
	bandBefore, bandAfter := oldest.Band(), newest.Band()
	if before == after && bandBefore == bandAfter {
		return
	}

	likelihood := 0.25
	if bandBefore != bandAfter {
		likelihood = 0.4
	}
	emit(domain.NetworkChange{
		Type:          domain.ChangeChannelShift,
		SSID:          newest.SSID,
		BSSID:         bssid,
		PreviousValue: domain.ChannelLabel(oldest.Frequency),
		CurrentValue:  domain.ChannelLabel(newest.Frequency),
		Description: fmt.Sprintf("%s moved from %s to %s", label(newest),
			domain.ChannelLabel(oldest.Frequency), domain.ChannelLabel(newest.Frequency)),
	}, likelihood, 0.8)
}

func (a *Analyzer) compareSignal(bssid string, oldest, newest domain.NetworkObservation, emit emitFunc) {
	delta := newest.RSSI - oldest.RSSI
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if abs < a.cfg.SignalDeltaDBM {
		return
	}
	emit(domain.NetworkChange{
		Type:          domain.ChangeSignalAnomaly,
		SSID:          newest.SSID,
		BSSID:         bssid,
		PreviousValue: fmt.Sprintf("%d dBm", oldest.RSSI),
		CurrentValue:  fmt.Sprintf("%d dBm", newest.RSSI),
		Description:   fmt.Sprintf("%s signal changed by %+d dBm", label(newest), delta),
	}, math.Min(1, float64(abs)/50), 0.7)
}

// significantAtoms are the tokens whose appearance or loss makes a capability change meaningful.
var significantAtoms = []string{"WPS", "CCMP", "TKIP"}

func (a *Analyzer) compareCapabilities(bssid string, oldest, newest domain.NetworkObservation, emit emitFunc) {
	before := domain.CapabilityAtoms(oldest.Capabilities)
	after := domain.CapabilityAtoms(newest.Capabilities)
	if sameSet(before, after) {
		return
	}

	var differs bool
	for _, tok := range significantAtoms {
		_, b := before[tok]
		_, n := after[tok]
		if b != n {
			differs = true
			break
		}
	}
	if !differs {
		return
	}

	emit(domain.NetworkChange{
		Type:          domain.ChangeCapabilitiesChanged,
		SSID:          newest.SSID,
		BSSID:         bssid,
		PreviousValue: oldest.Capabilities,
		CurrentValue:  newest.Capabilities,
		Description:   fmt.Sprintf("%s changed advertised capabilities", label(newest)),
	}, 0.35, 0.8)
}

func (a *Analyzer) checkFollowing(bssid string, entries []sighting, emit emitFunc) {
	if len(entries) < 3 {
		return
	}
	var points []geo.Location
	for _, e := range entries {
		if e.obs.HasGPS() {
			points = append(points, geo.Location{Latitude: e.obs.GPS.Latitude, Longitude: e.obs.GPS.Longitude})
		}
	}
	if len(points) < 2 {
		return
	}

	dist := geo.MaxPairwiseDistance(points)
	if dist <= a.cfg.FollowingDistanceMeters {
		return
	}

	newest := entries[0].obs
	emit(domain.NetworkChange{
		Type:          domain.ChangeFollowingNetwork,
		SSID:          newest.SSID,
		BSSID:         bssid,
		PreviousValue: fmt.Sprintf("%d sightings", len(entries)),
		CurrentValue:  fmt.Sprintf("%.0f m spread", dist),
		Description:   fmt.Sprintf("%s was seen %.0f m apart across %d scans", label(newest), dist, len(entries)),
	}, math.Min(1, 0.4+dist/10000), math.Min(1, 0.5+0.1*float64(len(points))))
}

// checkNewBSSIDs flags BSSIDs in the newest record that join an SSID already served by two or more older BSSIDs.
func (a *Analyzer) checkNewBSSIDs(records []domain.ScanRecord, emit emitFunc) {
	older := records[1:]
	known := knownBSSIDs(older)
	index := ssidIndex(older)

	reported := make(map[string]struct{})
	for _, n := range records[0].Networks {
		key := n.Key()
		if key == "" || !n.HasSSID() {
			continue
		}
		if _, ok := known[key]; ok {
			continue
		}
		if _, ok := reported[key]; ok {
			continue
		}
		others := len(index[n.SSID])
		if others < 2 {
			continue
		}
		reported[key] = struct{}{}

		emit(domain.NetworkChange{
			Type:          domain.ChangeNewBSSIDSameSSID,
			SSID:          n.SSID,
			BSSID:         key,
			PreviousValue: fmt.Sprintf("%d known BSSIDs", others),
			CurrentValue:  key,
			Description:   fmt.Sprintf("new BSSID %s appeared for %q which already had %d access points", key, n.SSID, others),
		}, math.Min(1, 0.3+0.1*float64(others-2)), 0.7)
	}
}

func label(n domain.NetworkObservation) string {
	if n.HasSSID() {
		return fmt.Sprintf("%q (%s)", n.SSID, n.Key())
	}
	return n.Key()
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
