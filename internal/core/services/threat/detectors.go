package threat

import (
	"strings"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// detector is one independent per-network check.
type detector interface {
	Name() string
	Threat() domain.ThreatType
	Detect(n domain.NetworkObservation, sc *scanContext) bool
}

// defaultDetectors returns one detector per ThreatType, in tag order.
func defaultDetectors() []detector {
	return []detector{
		&OpenNetworkDetector{},
		&SuspiciousSSIDDetector{},
		&MultipleBSSIDDetector{},
		&SecurityChangeDetector{},
		&EvilTwinDetector{},
		&MACSpoofingDetector{},
		&SignalStrengthDetector{},
		&MultiSSIDDetector{},
		&BeaconFloodDetector{},
		&InconsistentCapabilitiesDetector{},
		&NearCloneDetector{},
		&WPSDetector{},
		&ChannelShiftDetector{},
		&DeauthFloodDetector{},
		&ProbeResponseDetector{},
	}
}

// OpenNetworkDetector flags networks advertising no WPA/WEP/SAE token.
type OpenNetworkDetector struct{}

func (d *OpenNetworkDetector) Name() string              { return "OpenNetworkDetector" }
func (d *OpenNetworkDetector) Threat() domain.ThreatType { return domain.ThreatOpenNetwork }

func (d *OpenNetworkDetector) Detect(n domain.NetworkObservation, _ *scanContext) bool {
	return n.IsOpen()
}

// SuspiciousSSIDDetector matches the lower-cased SSID against the keyword list.
type SuspiciousSSIDDetector struct{}

func (d *SuspiciousSSIDDetector) Name() string              { return "SuspiciousSSIDDetector" }
func (d *SuspiciousSSIDDetector) Threat() domain.ThreatType { return domain.ThreatSuspiciousSSID }

func (d *SuspiciousSSIDDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !n.HasSSID() {
		return false
	}
	ssid := strings.ToLower(n.SSID)
	for _, kw := range sc.cfg.SuspiciousKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(ssid, kw) {
			return true
		}
	}
	return false
}

// MultipleBSSIDDetector flags SSIDs served by more than one BSSID within the recency window.
type MultipleBSSIDDetector struct{}

func (d *MultipleBSSIDDetector) Name() string              { return "MultipleBSSIDDetector" }
func (d *MultipleBSSIDDetector) Threat() domain.ThreatType { return domain.ThreatMultipleBSSIDs }

func (d *MultipleBSSIDDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !n.HasSSID() {
		return false
	}
	return len(sc.recentBSSIDsBySSID[n.SSID]) > 1
}

// SecurityChangeDetector compares security capabilities with the newest historical sighting of the SSID.
type SecurityChangeDetector struct{}

func (d *SecurityChangeDetector) Name() string              { return "SecurityChangeDetector" }
func (d *SecurityChangeDetector) Threat() domain.ThreatType { return domain.ThreatSecurityChange }

func (d *SecurityChangeDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !n.HasSSID() {
		return false
	}
	last, ok := sc.lastCapsBySSID[n.SSID]
	if !ok {
		return false
	}
	return last.caps != domain.SecurityCapabilities(n.Capabilities)
}

// EvilTwinDetector flags an open AP using an SSID previously seen secured, from a BSSID never paired with it.
type EvilTwinDetector struct{}

func (d *EvilTwinDetector) Name() string              { return "EvilTwinDetector" }
func (d *EvilTwinDetector) Threat() domain.ThreatType { return domain.ThreatEvilTwin }

func (d *EvilTwinDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !n.HasSSID() || !n.IsOpen() {
		return false
	}
	if !sc.securedSSIDs.has(n.SSID) {
		return false
	}
	return !sc.historicalPairs[n.SSID].has(n.Key())
}

// MACSpoofingDetector flags BSSIDs with the locally administered bit set.
type MACSpoofingDetector struct{}

func (d *MACSpoofingDetector) Name() string              { return "MACSpoofingDetector" }
func (d *MACSpoofingDetector) Threat() domain.ThreatType { return domain.ThreatMACSpoofing }

func (d *MACSpoofingDetector) Detect(n domain.NetworkObservation, _ *scanContext) bool {
	return domain.IsLocallyAdministered(n.BSSID)
}

// SignalStrengthDetector flags a brand new BSSID that is implausibly close.
type SignalStrengthDetector struct{}

func (d *SignalStrengthDetector) Name() string              { return "SignalStrengthDetector" }
func (d *SignalStrengthDetector) Threat() domain.ThreatType { return domain.ThreatSuspiciousSignal }

func (d *SignalStrengthDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !sc.hasHistory || n.Key() == "" {
		return false
	}
	return n.RSSI >= sc.cfg.StrongSignalDBM && !sc.historicalBSSIDs.has(n.Key())
}

// MultiSSIDDetector flags APs on an OUI broadcasting many distinct SSIDs in one scan.
type MultiSSIDDetector struct{}

func (d *MultiSSIDDetector) Name() string              { return "MultiSSIDDetector" }
func (d *MultiSSIDDetector) Threat() domain.ThreatType { return domain.ThreatMultiSSIDSameOUI }

func (d *MultiSSIDDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	oui, ok := domain.OUIKey(n.Key())
	if !ok {
		return false
	}
	return len(sc.ssidsByOUI[oui]) >= sc.cfg.MultiSSIDThreshold
}

// BeaconFloodDetector flags new BSSIDs arriving in bulk on one OUI. It needs a baseline scan.
type BeaconFloodDetector struct{}

func (d *BeaconFloodDetector) Name() string              { return "BeaconFloodDetector" }
func (d *BeaconFloodDetector) Threat() domain.ThreatType { return domain.ThreatBeaconFlood }

func (d *BeaconFloodDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	if !sc.hasHistory {
		return false
	}
	bssid := n.Key()
	oui, ok := domain.OUIKey(bssid)
	if !ok {
		return false
	}
	fresh := sc.newBSSIDsByOUI[oui]
	return fresh.has(bssid) && len(fresh) >= sc.cfg.BeaconFloodThreshold
}

// InconsistentCapabilitiesDetector flags standard/band combinations genuine hardware cannot produce.
type InconsistentCapabilitiesDetector struct{}

func (d *InconsistentCapabilitiesDetector) Name() string {
	return "InconsistentCapabilitiesDetector"
}
func (d *InconsistentCapabilitiesDetector) Threat() domain.ThreatType {
	return domain.ThreatInconsistentCapabilities
}

func (d *InconsistentCapabilitiesDetector) Detect(n domain.NetworkObservation, _ *scanContext) bool {
	switch n.Band() {
	case domain.Band24GHz:
		return n.Generation == domain.Standard80211ac
	case domain.Band6GHz:
		return n.Generation.PreAX()
	}
	return false
}

// NearCloneDetector flags a new BSSID that differs from a known AP of the same SSID
// only in its trailing octets, on the same band.
type NearCloneDetector struct{}

func (d *NearCloneDetector) Name() string              { return "NearCloneDetector" }
func (d *NearCloneDetector) Threat() domain.ThreatType { return domain.ThreatBSSIDNearClone }

func (d *NearCloneDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	bssid := n.Key()
	if !n.HasSSID() || bssid == "" || sc.historicalBSSIDs.has(bssid) {
		return false
	}
	band := n.Band()
	if band == domain.BandUnknown {
		return false
	}
	minShared := 6 - sc.cfg.NearCloneMaxOctets
	known := sc.historicalPairs[n.SSID]

	for _, other := range sc.current {
		otherBSSID := other.Key()
		if otherBSSID == bssid || other.SSID != n.SSID || other.Band() != band {
			continue
		}
		if domain.SharedPrefixOctets(bssid, otherBSSID) < minShared {
			continue
		}
		if known.has(otherBSSID) {
			return true
		}
	}
	return false
}

// WPSDetector flags networks advertising WPS.
type WPSDetector struct{}

func (d *WPSDetector) Name() string              { return "WPSDetector" }
func (d *WPSDetector) Threat() domain.ThreatType { return domain.ThreatWPSVulnerable }

func (d *WPSDetector) Detect(n domain.NetworkObservation, _ *scanContext) bool {
	return domain.HasWPS(n.Capabilities)
}

// ChannelShiftDetector flags a BSSID previously seen on a different band.
type ChannelShiftDetector struct{}

func (d *ChannelShiftDetector) Name() string              { return "ChannelShiftDetector" }
func (d *ChannelShiftDetector) Threat() domain.ThreatType { return domain.ThreatChannelShift }

func (d *ChannelShiftDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	band := n.Band()
	if band == domain.BandUnknown {
		return false
	}
	for seen := range sc.historicalBands[n.Key()] {
		if seen != band {
			return true
		}
	}
	return false
}

// DeauthFloodDetector reports a deauthentication burst seen by the privileged capture.
type DeauthFloodDetector struct{}

func (d *DeauthFloodDetector) Name() string              { return "DeauthFloodDetector" }
func (d *DeauthFloodDetector) Threat() domain.ThreatType { return domain.ThreatDeauthFlood }

func (d *DeauthFloodDetector) Detect(_ domain.NetworkObservation, sc *scanContext) bool {
	return sc.root.RootActive && sc.root.DeauthFrameCount > sc.cfg.DeauthThreshold
}

// ProbeResponseDetector flags SSIDs that answer probes without ever beaconing (Karma pattern).
type ProbeResponseDetector struct{}

func (d *ProbeResponseDetector) Name() string              { return "ProbeResponseDetector" }
func (d *ProbeResponseDetector) Threat() domain.ThreatType { return domain.ThreatProbeResponseAnomaly }

func (d *ProbeResponseDetector) Detect(n domain.NetworkObservation, sc *scanContext) bool {
	return sc.root.IsProbeOnly(n.SSID)
}
