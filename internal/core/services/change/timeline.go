package change

import (
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// sighting is one observation of a BSSID stamped with its record time.
type sighting struct {
	at  time.Time
	obs domain.NetworkObservation
}

// timeline groups sightings by BSSID, newest first.
type timeline struct {
	order   []string
	entries map[string][]sighting
}

// buildTimeline expects records sorted newest first.
// Observations without a BSSID are left out; a BSSID repeated inside one record counts once.
func buildTimeline(records []domain.ScanRecord) *timeline {
	tl := &timeline{
		entries: make(map[string][]sighting),
	}

	for _, rec := range records {
		seen := make(map[string]struct{}, len(rec.Networks))
		for _, n := range rec.Networks {
			key := n.Key()
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if _, ok := tl.entries[key]; !ok {
				tl.order = append(tl.order, key)
			}
			tl.entries[key] = append(tl.entries[key], sighting{at: rec.Timestamp, obs: n})
		}
	}
	return tl
}

// knownBSSIDs returns the set of BSSIDs seen in the given records.
func knownBSSIDs(records []domain.ScanRecord) map[string]struct{} {
	out := make(map[string]struct{})
	for _, rec := range records {
		for _, n := range rec.Networks {
			if key := n.Key(); key != "" {
				out[key] = struct{}{}
			}
		}
	}
	return out
}

// ssidIndex maps SSID to the set of BSSIDs seen for it in the given records.
func ssidIndex(records []domain.ScanRecord) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, rec := range records {
		for _, n := range rec.Networks {
			key := n.Key()
			if key == "" || !n.HasSSID() {
				continue
			}
			set, ok := out[n.SSID]
			if !ok {
				set = make(map[string]struct{})
				out[n.SSID] = set
			}
			set[key] = struct{}{}
		}
	}
	return out
}
