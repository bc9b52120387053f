package threat

import (
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

type stringSet map[string]struct{}

func (s stringSet) add(v string) { s[v] = struct{}{} }

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func addTo(m map[string]stringSet, key, value string) {
	set, ok := m[key]
	if !ok {
		set = make(stringSet)
		m[key] = set
	}
	set.add(value)
}

// latestCaps remembers the newest historical capability string of an SSID.
type latestCaps struct {
	recordTime time.Time
	seenAt     time.Time
	caps       string
}

// scanContext holds every index the detectors need, built once per Analyze call.
type scanContext struct {
	cfg  Config
	now  time.Time
	root domain.RootScanData

	current    []domain.NetworkObservation
	hasHistory bool

	// SSID -> BSSIDs seen in the current scan or in history inside the recency window
	recentBSSIDsBySSID map[string]stringSet
	// SSID -> newest historical capabilities (infrastructure tags stripped)
	lastCapsBySSID map[string]latestCaps
	// SSIDs observed with any security in history
	securedSSIDs stringSet
	// SSID -> BSSIDs associated with it anywhere in history
	historicalPairs map[string]stringSet
	// every BSSID in history
	historicalBSSIDs stringSet
	// BSSID -> bands it was seen on in history
	historicalBands map[string]map[domain.WiFiBand]struct{}

	// OUI -> distinct non-blank SSIDs in the current scan
	ssidsByOUI map[string]stringSet
	// OUI -> BSSIDs in the current scan that never appeared in history
	newBSSIDsByOUI map[string]stringSet
}

func newScanContext(cfg Config, now time.Time, current []domain.NetworkObservation, history []domain.ScanRecord, root domain.RootScanData) *scanContext {
	sc := &scanContext{
		cfg:                cfg,
		now:                now,
		root:               root,
		current:            current,
		hasHistory:         len(history) > 0,
		recentBSSIDsBySSID: make(map[string]stringSet),
		lastCapsBySSID:     make(map[string]latestCaps),
		securedSSIDs:       make(stringSet),
		historicalPairs:    make(map[string]stringSet),
		historicalBSSIDs:   make(stringSet),
		historicalBands:    make(map[string]map[domain.WiFiBand]struct{}),
		ssidsByOUI:         make(map[string]stringSet),
		newBSSIDsByOUI:     make(map[string]stringSet),
	}

	for _, record := range history {
		recent := now.Sub(record.Timestamp) <= cfg.RecencyWindow
		for _, n := range record.Networks {
			sc.indexHistorical(record.Timestamp, n, recent)
		}
	}

	for _, n := range current {
		bssid := n.Key()
		if n.HasSSID() && bssid != "" {
			addTo(sc.recentBSSIDsBySSID, n.SSID, bssid)
		}
		oui, ok := domain.OUIKey(bssid)
		if !ok {
			continue
		}
		if n.HasSSID() {
			addTo(sc.ssidsByOUI, oui, n.SSID)
		}
		if !sc.historicalBSSIDs.has(bssid) {
			addTo(sc.newBSSIDsByOUI, oui, bssid)
		}
	}

	return sc
}

func (sc *scanContext) indexHistorical(recordTime time.Time, n domain.NetworkObservation, recent bool) {
	bssid := n.Key()
	if bssid != "" {
		sc.historicalBSSIDs.add(bssid)
		if band := n.Band(); band != domain.BandUnknown {
			bands, ok := sc.historicalBands[bssid]
			if !ok {
				bands = make(map[domain.WiFiBand]struct{})
				sc.historicalBands[bssid] = bands
			}
			bands[band] = struct{}{}
		}
	}

	if !n.HasSSID() {
		return
	}

	if bssid != "" {
		addTo(sc.historicalPairs, n.SSID, bssid)
		if recent {
			addTo(sc.recentBSSIDsBySSID, n.SSID, bssid)
		}
	}

	if !n.IsOpen() {
		sc.securedSSIDs.add(n.SSID)
	}

	prev, ok := sc.lastCapsBySSID[n.SSID]
	if !ok || recordTime.After(prev.recordTime) ||
		(recordTime.Equal(prev.recordTime) && n.Timestamp.After(prev.seenAt)) {
		sc.lastCapsBySSID[n.SSID] = latestCaps{
			recordTime: recordTime,
			seenAt:     n.Timestamp,
			caps:       domain.SecurityCapabilities(n.Capabilities),
		}
	}
}
