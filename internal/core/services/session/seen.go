package session

import (
	"strconv"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// SeenNetworks accumulates every network observed during one monitoring session.
// Iteration follows first-seen order; later sightings replace the stored value in place.
// It is owned by the caller and is not safe for concurrent use.
type SeenNetworks struct {
	order []string
	byKey map[string]domain.NetworkObservation
}

// NewSeenNetworks creates an empty accumulator.
func NewSeenNetworks() *SeenNetworks {
	return &SeenNetworks{byKey: make(map[string]domain.NetworkObservation)}
}

// Merge records the observations of one scan and returns how many were new.
// Tags assigned in earlier scans are kept alongside the new ones.
func (s *SeenNetworks) Merge(observations []domain.NetworkObservation) int {
	added := 0
	for _, n := range observations {
		key := seenKey(n)
		prev, ok := s.byKey[key]
		if !ok {
			s.order = append(s.order, key)
			added++
		} else {
			n.Threats = n.Threats.Union(prev.Threats)
		}
		s.byKey[key] = n
	}
	return added
}

// Get returns the latest sighting stored under a canonical BSSID.
func (s *SeenNetworks) Get(bssid string) (domain.NetworkObservation, bool) {
	n, ok := s.byKey[domain.NormalizeBSSID(bssid)]
	return n, ok
}

// Len returns the number of distinct networks seen.
func (s *SeenNetworks) Len() int {
	return len(s.order)
}

// List returns the latest sighting of each network in first-seen order.
func (s *SeenNetworks) List() []domain.NetworkObservation {
	out := make([]domain.NetworkObservation, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// Flagged returns the networks that carried at least one tag at some point.
func (s *SeenNetworks) Flagged() []domain.NetworkObservation {
	var out []domain.NetworkObservation
	for _, key := range s.order {
		if n := s.byKey[key]; n.IsFlagged() {
			out = append(out, n)
		}
	}
	return out
}

func seenKey(n domain.NetworkObservation) string {
	if key := n.Key(); key != "" {
		return key
	}
	return n.SSID + "|" + strconv.Itoa(n.Frequency)
}
