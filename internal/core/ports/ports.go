package ports

import "time"

// Clock supplies "now" so time windows can be tested without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// VendorResolver maps a BSSID to a manufacturer name ("" when unknown).
type VendorResolver interface {
	Lookup(bssid string) string
}
