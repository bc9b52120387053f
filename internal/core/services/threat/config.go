package threat

import "time"

// DefaultSuspiciousKeywords are lower-case SSID fragments typical of rogue or test APs.
var DefaultSuspiciousKeywords = []string{
	"free",
	"pineapple",
	"karma",
	"pentest",
	"hacker",
	"evil",
	"rogue",
	"mitm",
	"phish",
}

// Config holds the tunable thresholds of the threat detectors.
type Config struct {
	SuspiciousKeywords []string
	// RecencyWindow bounds how far back history is pooled for the multiple-BSSID check.
	RecencyWindow time.Duration
	// StrongSignalDBM is the RSSI at or above which an unknown AP is implausibly close.
	StrongSignalDBM int
	// MultiSSIDThreshold is the number of distinct SSIDs on one OUI that marks SSID spam.
	MultiSSIDThreshold int
	// BeaconFloodThreshold is the number of brand new BSSIDs on one OUI that marks a flood.
	BeaconFloodThreshold int
	// NearCloneMaxOctets is how many trailing octets may differ between near-clone BSSIDs.
	NearCloneMaxOctets int
	// DeauthThreshold is the frame count per capture window above which a flood is reported.
	DeauthThreshold int
}

// DefaultConfig returns the empirically tuned defaults.
func DefaultConfig() Config {
	keywords := make([]string, len(DefaultSuspiciousKeywords))
	copy(keywords, DefaultSuspiciousKeywords)
	return Config{
		SuspiciousKeywords:   keywords,
		RecencyWindow:        10 * time.Minute,
		StrongSignalDBM:      -40,
		MultiSSIDThreshold:   5,
		BeaconFloodThreshold: 4,
		NearCloneMaxOctets:   2,
		DeauthThreshold:      10,
	}
}

// withDefaults fills zero values so a partially populated Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SuspiciousKeywords == nil {
		c.SuspiciousKeywords = d.SuspiciousKeywords
	}
	if c.RecencyWindow <= 0 {
		c.RecencyWindow = d.RecencyWindow
	}
	if c.StrongSignalDBM == 0 {
		c.StrongSignalDBM = d.StrongSignalDBM
	}
	if c.MultiSSIDThreshold <= 0 {
		c.MultiSSIDThreshold = d.MultiSSIDThreshold
	}
	if c.BeaconFloodThreshold <= 0 {
		c.BeaconFloodThreshold = d.BeaconFloodThreshold
	}
	if c.NearCloneMaxOctets <= 0 || c.NearCloneMaxOctets > 5 {
		c.NearCloneMaxOctets = d.NearCloneMaxOctets
	}
	if c.DeauthThreshold <= 0 {
		c.DeauthThreshold = d.DeauthThreshold
	}
	return c
}
