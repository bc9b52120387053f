package importer

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// WigleResult is the outcome of parsing one WiGLE export.
type WigleResult struct {
	Records  []domain.ScanRecord
	Imported int
	Skipped  int
}

// wigleTimeLayouts are the FirstSeen formats accepted, all read as UTC.
var wigleTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

type wigleColumns struct {
	mac, ssid, auth, firstSeen, channel, frequency, rssi int
	lat, lon, alt, acc, typ                              int
}

func resolveWigleColumns(idx columnIndex) wigleColumns {
	get := func(names ...string) int {
		i, _ := idx.find(names...)
		return i
	}
	return wigleColumns{
		mac:       get("mac"),
		ssid:      get("ssid"),
		auth:      get("authmode", "capabilities"),
		firstSeen: get("firstseen"),
		channel:   get("channel"),
		frequency: get("frequency"),
		rssi:      get("rssi"),
		lat:       get("currentlatitude", "latitude"),
		lon:       get("currentlongitude", "longitude"),
		alt:       get("altitudemeters", "altitude"),
		acc:       get("accuracymeters", "accuracy"),
		typ:       get("type"),
	}
}

// ParseWigle reads a WiGLE WiFi CSV export: an app metadata line, a "MAC,..." header line, then rows.
// Only Type=WIFI rows are imported; everything else is counted as skipped. It never fails:
// empty, header-only or garbled input yields an empty result.
func ParseWigle(r io.Reader) WigleResult {
	cr := newReader(r)
	res := WigleResult{Records: []domain.ScanRecord{}}

	var cols *wigleColumns
	line := 0
	for {
		row, malformed, ok := readRow(cr)
		if !ok {
			break
		}
		line++

		if cols == nil {
			// The first line is app metadata. Any other line before the header is skipped.
			if !malformed && len(row) > 0 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff")), "MAC") {
				c := resolveWigleColumns(indexHeader(row))
				cols = &c
				continue
			}
			if line < 2 {
				continue
			}
			if malformed || !blankRow(row) {
				res.Skipped++
			}
			continue
		}

		if malformed {
			res.Skipped++
			continue
		}
		if blankRow(row) {
			continue
		}

		n, ok := parseWigleRow(row, *cols)
		if !ok {
			res.Skipped++
			continue
		}
		res.Imported++
		res.Records = appendToDay(res.Records, n)
	}

	sort.SliceStable(res.Records, func(i, j int) bool {
		return res.Records[i].Timestamp.After(res.Records[j].Timestamp)
	})
	if res.Skipped > 0 {
		slog.Debug("WiGLE rows skipped", "skipped", res.Skipped, "imported", res.Imported)
	}
	return res
}

func parseWigleRow(row []string, c wigleColumns) (domain.NetworkObservation, bool) {
	if c.typ >= 0 && !strings.EqualFold(field(row, c.typ), "WIFI") {
		return domain.NetworkObservation{}, false
	}

	bssid := domain.NormalizeBSSID(field(row, c.mac))
	if !domain.IsValidBSSID(bssid) {
		return domain.NetworkObservation{}, false
	}

	seen, ok := parseWigleTime(field(row, c.firstSeen))
	if !ok {
		return domain.NetworkObservation{}, false
	}

	n := domain.NetworkObservation{
		SSID:         field(row, c.ssid),
		BSSID:        bssid,
		Capabilities: field(row, c.auth),
		Timestamp:    seen,
		Frequency:    wigleFrequency(field(row, c.frequency), field(row, c.channel)),
	}
	if v, ok := parseInt(field(row, c.rssi)); ok {
		n.RSSI = int(v)
	}

	lat, okLat := parseFinite(field(row, c.lat))
	lon, okLon := parseFinite(field(row, c.lon))
	if okLat && okLon && !(lat == 0 && lon == 0) {
		fix := &domain.GPSFix{Latitude: lat, Longitude: lon}
		if v, ok := parseFinite(field(row, c.alt)); ok {
			fix.Altitude = &v
		}
		if v, ok := parseFinite(field(row, c.acc)); ok {
			fix.Accuracy = &v
		}
		n.GPS = fix
	}
	return n, true
}

func parseWigleTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range wigleTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// wigleFrequency prefers an explicit frequency column, then converts the channel number.
func wigleFrequency(freq, channel string) int {
	if v, ok := parseInt(freq); ok && domain.BandForFrequency(int(v)) != domain.BandUnknown {
		return int(v)
	}
	ch, ok := parseInt(channel)
	if !ok {
		return 0
	}
	if f, ok := domain.FrequencyForChannel(int(ch), domain.GuessBandForChannel(int(ch))); ok {
		return f
	}
	return 0
}

// appendToDay adds n to the record for its UTC calendar day, creating it at midnight if needed.
func appendToDay(records []domain.ScanRecord, n domain.NetworkObservation) []domain.ScanRecord {
	u := n.Timestamp.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	for i := range records {
		if records[i].Timestamp.Equal(day) {
			records[i].Networks = append(records[i].Networks, n)
			return records
		}
	}
	return append(records, domain.ScanRecord{Timestamp: day, Networks: []domain.NetworkObservation{n}})
}
