package domain

import "strings"

// ThreatType is a closed set of per-scan threat tags.
// Adding a value requires updating String, AllThreatTypes and every detector registry.
type ThreatType uint8

const (
	ThreatOpenNetwork ThreatType = iota
	ThreatSuspiciousSSID
	ThreatMultipleBSSIDs
	ThreatSecurityChange
	ThreatEvilTwin
	ThreatMACSpoofing
	ThreatSuspiciousSignal
	ThreatMultiSSIDSameOUI
	ThreatBeaconFlood
	ThreatInconsistentCapabilities
	ThreatBSSIDNearClone
	ThreatWPSVulnerable
	ThreatChannelShift
	ThreatDeauthFlood
	ThreatProbeResponseAnomaly

	threatTypeCount
)

// AllThreatTypes lists every tag in declaration order.
func AllThreatTypes() []ThreatType {
	out := make([]ThreatType, 0, threatTypeCount)
	for t := ThreatType(0); t < threatTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the stable wire name of the tag.
func (t ThreatType) String() string {
	switch t {
	case ThreatOpenNetwork:
		return "OPEN_NETWORK"
	case ThreatSuspiciousSSID:
		return "SUSPICIOUS_SSID"
	case ThreatMultipleBSSIDs:
		return "MULTIPLE_BSSIDS"
	case ThreatSecurityChange:
		return "SECURITY_CHANGE"
	case ThreatEvilTwin:
		return "EVIL_TWIN"
	case ThreatMACSpoofing:
		return "MAC_SPOOFING_SUSPECTED"
	case ThreatSuspiciousSignal:
		return "SUSPICIOUS_SIGNAL_STRENGTH"
	case ThreatMultiSSIDSameOUI:
		return "MULTI_SSID_SAME_OUI"
	case ThreatBeaconFlood:
		return "BEACON_FLOOD"
	case ThreatInconsistentCapabilities:
		return "INCONSISTENT_CAPABILITIES"
	case ThreatBSSIDNearClone:
		return "BSSID_NEAR_CLONE"
	case ThreatWPSVulnerable:
		return "WPS_VULNERABLE"
	case ThreatChannelShift:
		return "CHANNEL_SHIFT"
	case ThreatDeauthFlood:
		return "DEAUTH_FLOOD"
	case ThreatProbeResponseAnomaly:
		return "PROBE_RESPONSE_ANOMALY"
	}
	return "UNKNOWN"
}

// Description is a short human readable explanation of the tag.
func (t ThreatType) Description() string {
	switch t {
	case ThreatOpenNetwork:
		return "Network has no encryption"
	case ThreatSuspiciousSSID:
		return "SSID contains a keyword typical of rogue access points"
	case ThreatMultipleBSSIDs:
		return "SSID broadcast by several BSSIDs in a short time window"
	case ThreatSecurityChange:
		return "Security capabilities differ from the last time this SSID was seen"
	case ThreatEvilTwin:
		return "Open AP impersonating a previously secured SSID"
	case ThreatMACSpoofing:
		return "BSSID has the locally administered bit set"
	case ThreatSuspiciousSignal:
		return "Unknown AP with an implausibly strong signal"
	case ThreatMultiSSIDSameOUI:
		return "Many SSIDs broadcast from one hardware vendor prefix"
	case ThreatBeaconFlood:
		return "Burst of new BSSIDs sharing one vendor prefix"
	case ThreatInconsistentCapabilities:
		return "Declared Wi-Fi standard is impossible on this band"
	case ThreatBSSIDNearClone:
		return "New BSSID nearly identical to a known AP of the same SSID"
	case ThreatWPSVulnerable:
		return "WPS is enabled"
	case ThreatChannelShift:
		return "BSSID moved to a different band"
	case ThreatDeauthFlood:
		return "Deauthentication flood observed during capture"
	case ThreatProbeResponseAnomaly:
		return "SSID answers probes but never beacons"
	}
	return "Unknown threat"
}

// ParseThreatType resolves a wire name. Unknown names report false.
func ParseThreatType(name string) (ThreatType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for t := ThreatType(0); t < threatTypeCount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// ThreatSet is an immutable-by-value set of ThreatType.
type ThreatSet uint32

// NewThreatSet builds a set from the given tags.
func NewThreatSet(types ...ThreatType) ThreatSet {
	var s ThreatSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// With returns a copy of the set with t added.
func (s ThreatSet) With(t ThreatType) ThreatSet {
	if t >= threatTypeCount {
		return s
	}
	return s | 1<<t
}

// Union returns the union of both sets.
func (s ThreatSet) Union(o ThreatSet) ThreatSet {
	return s | o
}

// Has reports membership.
func (s ThreatSet) Has(t ThreatType) bool {
	return t < threatTypeCount && s&(1<<t) != 0
}

// IsEmpty reports whether no tag is set.
func (s ThreatSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of tags.
func (s ThreatSet) Len() int {
	n := 0
	for t := ThreatType(0); t < threatTypeCount; t++ {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Types returns the tags in declaration order.
func (s ThreatSet) Types() []ThreatType {
	var out []ThreatType
	for t := ThreatType(0); t < threatTypeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Names returns the wire names of the tags in declaration order.
func (s ThreatSet) Names() []string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
