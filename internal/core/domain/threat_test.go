package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThreatSet(t *testing.T) {
	var s ThreatSet
	assert.True(t, s.IsEmpty())

	s = s.With(ThreatEvilTwin).With(ThreatOpenNetwork).With(ThreatEvilTwin)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(ThreatEvilTwin))
	assert.False(t, s.Has(ThreatBeaconFlood))
	assert.Equal(t, []ThreatType{ThreatOpenNetwork, ThreatEvilTwin}, s.Types())

	u := s.Union(NewThreatSet(ThreatBeaconFlood))
	assert.Equal(t, 3, u.Len())
	assert.Equal(t, 2, s.Len(), "union must not mutate the receiver")
}

func TestThreatTypeNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, tt := range AllThreatTypes() {
		name := tt.String()
		assert.NotEqual(t, "UNKNOWN", name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true

		parsed, ok := ParseThreatType(name)
		assert.True(t, ok)
		assert.Equal(t, tt, parsed)
		assert.NotEqual(t, "Unknown threat", tt.Description())
	}
	assert.Len(t, seen, 15)

	parsed, ok := ParseThreatType("mac_spoofing_suspected")
	assert.True(t, ok)
	assert.Equal(t, ThreatMACSpoofing, parsed)

	_, ok = ParseThreatType("LASER_SHARKS")
	assert.False(t, ok)
}

func TestChangeSeverity(t *testing.T) {
	assert.Equal(t, ChangeSeverityHigh, SeverityForScore(100))
	assert.Equal(t, ChangeSeverityHigh, SeverityForScore(70))
	assert.Equal(t, ChangeSeverityMedium, SeverityForScore(69))
	assert.Equal(t, ChangeSeverityMedium, SeverityForScore(40))
	assert.Equal(t, ChangeSeverityLow, SeverityForScore(39))
	assert.Len(t, AllChangeTypes(), 7)
}

func TestRootScanData(t *testing.T) {
	var none RootScanData
	assert.False(t, none.RootActive)
	assert.False(t, none.IsProbeOnly("Karma"))

	active := NewRootScanData(3, []string{"Karma"})
	assert.True(t, active.RootActive)
	assert.True(t, active.IsProbeOnly("Karma"))
	assert.False(t, active.IsProbeOnly("Home"))
	assert.False(t, active.IsProbeOnly(""))
}

func TestScanRecord(t *testing.T) {
	networks := []NetworkObservation{
		{SSID: "a", Threats: NewThreatSet(ThreatOpenNetwork)},
		{SSID: "b"},
	}
	rec := NewScanRecord(time.Unix(100, 0), networks)
	networks[1].Threats = NewThreatSet(ThreatEvilTwin)
	assert.Equal(t, 1, rec.FlaggedCount(), "record must own its networks")

	records := []ScanRecord{
		{Timestamp: time.Unix(1, 0)},
		{Timestamp: time.Unix(3, 0)},
		{Timestamp: time.Unix(2, 0)},
	}
	SortNewestFirst(records)
	assert.Equal(t, int64(3), records[0].Timestamp.Unix())
	assert.Equal(t, int64(1), records[2].Timestamp.Unix())
}

func TestNetworkObservationHelpers(t *testing.T) {
	n := NetworkObservation{SSID: "  ", BSSID: "ac-d7-5b-00-00-01", Frequency: 5180, Capabilities: "[ESS]"}
	assert.False(t, n.HasSSID())
	assert.Equal(t, "AC:D7:5B:00:00:01", n.Key())
	assert.Equal(t, Band5GHz, n.Band())
	assert.True(t, n.IsOpen())
	assert.False(t, n.HasGPS())
	assert.False(t, n.IsFlagged())
}

func TestNetworkChangeJSON(t *testing.T) {
	data, err := json.Marshal(NetworkChange{Type: ChangeFollowingNetwork, Score: 72, Severity: SeverityForScore(72)})
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FOLLOWING_NETWORK"`)
	assert.Contains(t, string(data), `"severity":"high"`)
}
