package storage

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

func TestHistoryRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	original := []domain.ScanRecord{{
		Timestamp: ts,
		Networks: []domain.NetworkObservation{
			{
				SSID:         "CoffeeShop",
				BSSID:        "AA:BB:CC:11:22:33",
				Capabilities: "[WPA2-PSK-CCMP][ESS]",
				RSSI:         -48,
				Frequency:    2437,
				Timestamp:    ts,
				Generation:   domain.Standard80211ax,
				GPS:          &domain.GPSFix{Latitude: 40.4168, Longitude: -3.7038, Altitude: floatPtr(657), Accuracy: floatPtr(4.5)},
				Threats:      domain.NewThreatSet(domain.ThreatEvilTwin, domain.ThreatWPSVulnerable),
			},
			{
				SSID:      "",
				BSSID:     "DE:AD:BE:EF:00:01",
				RSSI:      -80,
				Frequency: 5180,
				Timestamp: ts,
			},
		},
	}}

	data, err := EncodeHistory(original)
	require.NoError(t, err)

	decoded, skipped := DecodeHistory(data)
	assert.Zero(t, skipped)
	assert.Equal(t, original, decoded)
}

func TestEncodeHistory_OmitsAbsentGPS(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	data, err := EncodeHistory([]domain.ScanRecord{{
		Timestamp: ts,
		Networks: []domain.NetworkObservation{
			{SSID: "NoFix", BSSID: "AC:D7:5B:00:00:01", Timestamp: ts},
			{SSID: "BadFix", BSSID: "AC:D7:5B:00:00:02", Timestamp: ts, GPS: &domain.GPSFix{Latitude: math.NaN()}},
		},
	}})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	nets := raw[0]["networks"].([]any)
	for _, n := range nets {
		m := n.(map[string]any)
		for _, key := range []string{"latitude", "longitude", "altitude", "gpsAccuracy"} {
			assert.NotContains(t, m, key)
		}
	}
	assert.Equal(t, float64(ts.UnixMilli()), raw[0]["timestamp"])
}

func TestEncodeHistory_OmitsUnreportedAltitude(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := domain.ScanRecord{
		Timestamp: ts,
		Networks: []domain.NetworkObservation{
			{SSID: "Static", BSSID: "AC:D7:5B:00:00:01", Timestamp: ts, GPS: &domain.GPSFix{Latitude: 40.4168, Longitude: -3.7038}},
		},
	}
	data, err := EncodeHistory([]domain.ScanRecord{rec})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	n := raw[0]["networks"].([]any)[0].(map[string]any)
	assert.Equal(t, 40.4168, n["latitude"])
	assert.NotContains(t, n, "altitude")
	assert.NotContains(t, n, "gpsAccuracy")

	decoded, _ := DecodeHistory(data)
	require.NotNil(t, decoded[0].Networks[0].GPS)
	assert.Nil(t, decoded[0].Networks[0].GPS.Altitude)
	assert.Nil(t, decoded[0].Networks[0].GPS.Accuracy)
}

func TestDecodeHistory_Tolerance(t *testing.T) {
	doc := `[
		{"timestamp": 1773489600000, "networks": [
			{"ssid": "A", "bssid": "AC:D7:5B:00:00:01", "capabilities": "[ESS]", "rssi": -50, "frequency": 2412,
			 "timestamp": 1773489600000, "threats": ["OPEN_NETWORK", "RENAMED_OLD_TAG"]},
			{"ssid": "B", "bssid": "AC:D7:5B:00:00:02", "rssi": "loud"},
			{"ssid": "C", "bssid": "AC:D7:5B:00:00:03", "rssi": -60, "latitude": 1.5}
		]},
		"not a record",
		{"timestamp": 1773403200000, "networks": []}
	]`

	records, skipped := DecodeHistory([]byte(doc))
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)
	require.Len(t, records[0].Networks, 2)

	first := records[0].Networks[0]
	assert.Equal(t, domain.NewThreatSet(domain.ThreatOpenNetwork), first.Threats)

	partialGPS := records[0].Networks[1]
	assert.Equal(t, "C", partialGPS.SSID)
	assert.Nil(t, partialGPS.GPS, "latitude without longitude is not a fix")
}

func TestDecodeHistory_NotAnArray(t *testing.T) {
	for _, doc := range []string{"", "{}", "garbage", "null"} {
		records, _ := DecodeHistory([]byte(doc))
		assert.Empty(t, records, doc)
	}
}

func TestDecodeObservations(t *testing.T) {
	fallback := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	doc := `[{"ssid": "Home", "bssid": "ac-d7-5b-00-00-01", "capabilities": "[WPA2-PSK-CCMP][ESS]", "rssi": -42, "frequency": 5180}]`

	nets, err := DecodeObservations([]byte(doc), fallback)
	require.NoError(t, err)
	require.Len(t, nets, 1)
	assert.Equal(t, "AC:D7:5B:00:00:01", nets[0].BSSID)
	assert.Equal(t, fallback, nets[0].Timestamp)
	assert.True(t, nets[0].Threats.IsEmpty())

	_, err = DecodeObservations([]byte("{"), fallback)
	assert.Error(t, err)

	out, err := EncodeObservations(nets)
	require.NoError(t, err)
	again, err := DecodeObservations(out, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, nets, again)
}
