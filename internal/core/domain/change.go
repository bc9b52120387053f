package domain

import "time"

// ChangeType is a closed set of cross-scan change events.
type ChangeType uint8

const (
	ChangeSecurityDowngrade ChangeType = iota
	ChangeSecurityUpgrade
	ChangeChannelShift
	ChangeSignalAnomaly
	ChangeCapabilitiesChanged
	ChangeNewBSSIDSameSSID
	ChangeFollowingNetwork

	changeTypeCount
)

// AllChangeTypes lists every change type in declaration order.
func AllChangeTypes() []ChangeType {
	out := make([]ChangeType, 0, changeTypeCount)
	for c := ChangeType(0); c < changeTypeCount; c++ {
		out = append(out, c)
	}
	return out
}

func (c ChangeType) String() string {
	switch c {
	case ChangeSecurityDowngrade:
		return "SECURITY_DOWNGRADE"
	case ChangeSecurityUpgrade:
		return "SECURITY_UPGRADE"
	case ChangeChannelShift:
		return "CHANNEL_SHIFT"
	case ChangeSignalAnomaly:
		return "SIGNAL_ANOMALY"
	case ChangeCapabilitiesChanged:
		return "CAPABILITIES_CHANGED"
	case ChangeNewBSSIDSameSSID:
		return "NEW_BSSID_SAME_SSID"
	case ChangeFollowingNetwork:
		return "FOLLOWING_NETWORK"
	}
	return "UNKNOWN"
}

// MarshalText encodes the change type by name.
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ChangeSeverity buckets a change score.
type ChangeSeverity string

const (
	ChangeSeverityHigh   ChangeSeverity = "high"
	ChangeSeverityMedium ChangeSeverity = "medium"
	ChangeSeverityLow    ChangeSeverity = "low"
)

// SeverityForScore maps a 0-100 score to its bucket.
func SeverityForScore(score int) ChangeSeverity {
	switch {
	case score >= 70:
		return ChangeSeverityHigh
	case score >= 40:
		return ChangeSeverityMedium
	default:
		return ChangeSeverityLow
	}
}

// NetworkChange is one scored event produced by the change analyzer.
// Changes are recomputed on demand and never persisted.
type NetworkChange struct {
	Type          ChangeType     `json:"type"`
	SSID          string         `json:"ssid"`
	BSSID         string         `json:"bssid"`
	PreviousValue string         `json:"previous_value"`
	CurrentValue  string         `json:"current_value"`
	Description   string         `json:"description"`
	DetectedAt    time.Time      `json:"detected_at"`
	Score         int            `json:"score"`
	Severity      ChangeSeverity `json:"severity"`
}

// AnalysisResult is the output of one change analysis run.
type AnalysisResult struct {
	Changes         []NetworkChange `json:"changes"`
	ChangeCount     int             `json:"change_count"`
	RecordsAnalyzed int             `json:"records_analyzed"`
}
