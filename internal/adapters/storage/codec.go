package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// recordJSON is the on-disk shape of one ScanRecord.
type recordJSON struct {
	Timestamp int64             `json:"timestamp"`
	Networks  []json.RawMessage `json:"networks"`
}

// networkJSON is the on-disk shape of one NetworkObservation.
// GPS fields are pointers so that "no fix" is an absent key rather than a zero.
type networkJSON struct {
	SSID         string   `json:"ssid"`
	BSSID        string   `json:"bssid"`
	Capabilities string   `json:"capabilities"`
	RSSI         int      `json:"rssi"`
	Frequency    int      `json:"frequency"`
	Timestamp    int64    `json:"timestamp"`
	Threats      []string `json:"threats"`
	WifiStandard int      `json:"wifiStandard,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Altitude     *float64 `json:"altitude,omitempty"`
	GPSAccuracy  *float64 `json:"gpsAccuracy,omitempty"`
}

// toWire converts an observation to its serializable form.
func toWire(n domain.NetworkObservation) networkJSON {
	w := networkJSON{
		SSID:         n.SSID,
		BSSID:        n.BSSID,
		Capabilities: n.Capabilities,
		RSSI:         n.RSSI,
		Frequency:    n.Frequency,
		Timestamp:    toMillis(n.Timestamp),
		Threats:      n.Threats.Names(),
		WifiStandard: int(n.Generation),
	}
	if w.Threats == nil {
		w.Threats = []string{}
	}
	if g := n.GPS; g != nil && finite(g.Latitude) && finite(g.Longitude) {
		w.Latitude = floatPtr(g.Latitude)
		w.Longitude = floatPtr(g.Longitude)
		if g.Altitude != nil && finite(*g.Altitude) {
			w.Altitude = floatPtr(*g.Altitude)
		}
		if g.Accuracy != nil && finite(*g.Accuracy) {
			w.GPSAccuracy = floatPtr(*g.Accuracy)
		}
	}
	return w
}

// fromWire converts the serializable form back, dropping unknown threat names.
func fromWire(w networkJSON) domain.NetworkObservation {
	n := domain.NetworkObservation{
		SSID:         w.SSID,
		BSSID:        w.BSSID,
		Capabilities: w.Capabilities,
		RSSI:         w.RSSI,
		Frequency:    w.Frequency,
		Timestamp:    fromMillis(w.Timestamp),
		Generation:   domain.WifiStandard(w.WifiStandard),
	}
	for _, name := range w.Threats {
		if t, ok := domain.ParseThreatType(name); ok {
			n.Threats = n.Threats.With(t)
		}
	}
	if w.Latitude != nil && w.Longitude != nil && finite(*w.Latitude) && finite(*w.Longitude) {
		fix := &domain.GPSFix{Latitude: *w.Latitude, Longitude: *w.Longitude}
		if w.Altitude != nil && finite(*w.Altitude) {
			fix.Altitude = floatPtr(*w.Altitude)
		}
		if w.GPSAccuracy != nil && finite(*w.GPSAccuracy) {
			fix.Accuracy = floatPtr(*w.GPSAccuracy)
		}
		n.GPS = fix
	}
	return n
}

// EncodeHistory serializes records as a JSON array.
func EncodeHistory(records []domain.ScanRecord) ([]byte, error) {
	type outRecord struct {
		Timestamp int64         `json:"timestamp"`
		Networks  []networkJSON `json:"networks"`
	}
	out := make([]outRecord, 0, len(records))
	for _, r := range records {
		nets := make([]networkJSON, 0, len(r.Networks))
		for _, n := range r.Networks {
			nets = append(nets, toWire(n))
		}
		out = append(out, outRecord{Timestamp: toMillis(r.Timestamp), Networks: nets})
	}
	return json.Marshal(out)
}

// DecodeHistory parses a JSON array of records. Malformed records and networks are skipped
// and counted; a document that is not an array yields no records.
func DecodeHistory(data []byte) ([]domain.ScanRecord, int) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("Scan history is unreadable, starting empty", "error", err)
		return []domain.ScanRecord{}, 0
	}

	records := make([]domain.ScanRecord, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		var rj recordJSON
		if err := json.Unmarshal(item, &rj); err != nil {
			skipped++
			continue
		}
		networks := make([]domain.NetworkObservation, 0, len(rj.Networks))
		for _, netRaw := range rj.Networks {
			var nj networkJSON
			if err := json.Unmarshal(netRaw, &nj); err != nil {
				skipped++
				continue
			}
			networks = append(networks, fromWire(nj))
		}
		records = append(records, domain.ScanRecord{
			Timestamp: fromMillis(rj.Timestamp),
			Networks:  networks,
		})
	}
	if skipped > 0 {
		slog.Warn("Skipped corrupt scan history entries", "skipped", skipped)
	}
	return records, skipped
}

// EncodeObservations serializes a flat list of observations.
func EncodeObservations(networks []domain.NetworkObservation) ([]byte, error) {
	out := make([]networkJSON, 0, len(networks))
	for _, n := range networks {
		out = append(out, toWire(n))
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeObservations parses a JSON array of observations, the format a platform scan is exported in.
// Observations without a timestamp take fallback.
func DecodeObservations(data []byte, fallback time.Time) ([]domain.NetworkObservation, error) {
	var raw []networkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	out := make([]domain.NetworkObservation, 0, len(raw))
	for _, w := range raw {
		n := fromWire(w)
		if w.Timestamp == 0 {
			n.Timestamp = fallback
		}
		n.BSSID = domain.NormalizeBSSID(n.BSSID)
		out = append(out, n)
	}
	return out, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func floatPtr(v float64) *float64 {
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
