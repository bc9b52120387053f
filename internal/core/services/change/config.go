package change

// Config holds the change analyzer thresholds.
type Config struct {
	// SignalDeltaDBM is the minimum RSSI swing reported as a signal anomaly.
	SignalDeltaDBM int
	// FollowingDistanceMeters is the spread above which a BSSID is considered mobile.
	FollowingDistanceMeters float64
	// MinScore drops events scoring below it.
	MinScore int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		SignalDeltaDBM:          15,
		FollowingDistanceMeters: 500,
		MinScore:                10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SignalDeltaDBM <= 0 {
		c.SignalDeltaDBM = d.SignalDeltaDBM
	}
	if c.FollowingDistanceMeters <= 0 {
		c.FollowingDistanceMeters = d.FollowingDistanceMeters
	}
	if c.MinScore <= 0 {
		c.MinScore = d.MinScore
	}
	return c
}
