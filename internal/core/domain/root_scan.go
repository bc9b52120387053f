package domain

// RootScanData is the result handed over by the privileged capture collaborator.
// The zero value means no privileged data is available and is a valid analyzer input.
type RootScanData struct {
	DeauthFrameCount int
	ProbeOnlySSIDs   map[string]struct{}
	RootActive       bool
}

// NewRootScanData builds an active capture result.
func NewRootScanData(deauthFrames int, probeOnly []string) RootScanData {
	set := make(map[string]struct{}, len(probeOnly))
	for _, ssid := range probeOnly {
		set[ssid] = struct{}{}
	}
	return RootScanData{
		DeauthFrameCount: deauthFrames,
		ProbeOnlySSIDs:   set,
		RootActive:       true,
	}
}

// IsProbeOnly reports whether ssid answered probes without ever beaconing.
func (r RootScanData) IsProbeOnly(ssid string) bool {
	if !r.RootActive || ssid == "" {
		return false
	}
	_, ok := r.ProbeOnlySSIDs[ssid]
	return ok
}
