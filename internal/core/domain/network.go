package domain

import (
	"sort"
	"strings"
	"time"
)

// GPSFix is the position reported by the device when an observation was taken.
// An observation without a fix carries a nil *GPSFix, never a zeroed one.
// Altitude and Accuracy are nil when the source did not report them.
type GPSFix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Accuracy  *float64 `json:"gpsAccuracy,omitempty"`
}

// NetworkObservation is one access point seen in one scan pass.
type NetworkObservation struct {
	SSID         string       // empty for hidden networks
	BSSID        string       // colon-hex, empty for non-hardware entries
	Capabilities string       // vendor supplied, e.g. "[WPA2-PSK-CCMP][ESS][WPS]"
	RSSI         int          // dBm
	Frequency    int          // center frequency, MHz
	Timestamp    time.Time    // when this AP was seen
	Generation   WifiStandard // 0 when the platform did not report it
	GPS          *GPSFix
	Threats      ThreatSet
}

// IsFlagged reports whether the analyzer attached at least one threat tag.
func (n NetworkObservation) IsFlagged() bool {
	return !n.Threats.IsEmpty()
}

// IsOpen reports whether the capability string lacks every WPA/WEP/SAE token.
func (n NetworkObservation) IsOpen() bool {
	return IsOpenCapabilities(n.Capabilities)
}

// HasGPS reports whether the observation carries a position fix.
func (n NetworkObservation) HasGPS() bool {
	return n.GPS != nil
}

// Band resolves the observation's frequency to a Wi-Fi band.
func (n NetworkObservation) Band() WiFiBand {
	return BandForFrequency(n.Frequency)
}

// HasSSID reports whether the SSID carries any non-blank character.
func (n NetworkObservation) HasSSID() bool {
	return strings.TrimSpace(n.SSID) != ""
}

// Key returns the canonical BSSID used to index observations.
func (n NetworkObservation) Key() string {
	return NormalizeBSSID(n.BSSID)
}

// ScanRecord is the list of networks captured in one scan pass.
type ScanRecord struct {
	Timestamp time.Time
	Networks  []NetworkObservation
}

// NewScanRecord builds a record owning its own copy of networks.
func NewScanRecord(ts time.Time, networks []NetworkObservation) ScanRecord {
	cp := make([]NetworkObservation, len(networks))
	copy(cp, networks)
	return ScanRecord{Timestamp: ts, Networks: cp}
}

// FlaggedCount returns how many networks in the record carry threat tags.
func (r ScanRecord) FlaggedCount() int {
	count := 0
	for _, n := range r.Networks {
		if n.IsFlagged() {
			count++
		}
	}
	return count
}

// SortNewestFirst orders records by descending timestamp in place.
func SortNewestFirst(records []ScanRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
