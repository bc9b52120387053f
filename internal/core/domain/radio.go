package domain

import "fmt"

// WiFiBand represents a typed string for frequency bands.
type WiFiBand string

const (
	BandUnknown WiFiBand = ""
	Band24GHz   WiFiBand = "2.4GHz"
	Band5GHz    WiFiBand = "5GHz"
	Band6GHz    WiFiBand = "6GHz"
)

// BandForFrequency maps a center frequency (MHz) to exactly one band,
// or BandUnknown when it falls outside every Wi-Fi band.
func BandForFrequency(freq int) WiFiBand {
	switch {
	case freq >= 2400 && freq < 2500:
		return Band24GHz
	case freq >= 4900 && freq < 5925:
		return Band5GHz
	case freq >= 5925 && freq <= 7125:
		return Band6GHz
	}
	return BandUnknown
}

// ChannelForFrequency converts a center frequency (MHz) to its channel number.
func ChannelForFrequency(freq int) (int, bool) {
	switch BandForFrequency(freq) {
	case Band24GHz:
		if freq == 2484 {
			return 14, true
		}
		if freq < 2412 || freq > 2472 || (freq-2407)%5 != 0 {
			return 0, false
		}
		return (freq - 2407) / 5, true
	case Band5GHz:
		if freq < 5160 || freq > 5885 || (freq-5000)%5 != 0 {
			return 0, false
		}
		return (freq - 5000) / 5, true
	case Band6GHz:
		if freq < 5955 || freq > 7115 || (freq-5950)%5 != 0 {
			return 0, false
		}
		return (freq - 5950) / 5, true
	}
	return 0, false
}

// FrequencyForChannel is the inverse of ChannelForFrequency within one band.
func FrequencyForChannel(channel int, band WiFiBand) (int, bool) {
	switch band {
	case Band24GHz:
		if channel == 14 {
			return 2484, true
		}
		if channel >= 1 && channel <= 13 {
			return 2407 + 5*channel, true
		}
	case Band5GHz:
		if channel >= 32 && channel <= 177 {
			return 5000 + 5*channel, true
		}
	case Band6GHz:
		if channel >= 1 && channel <= 233 {
			return 5950 + 5*channel, true
		}
	}
	return 0, false
}

// GuessBandForChannel picks the band a bare channel number most likely belongs to.
// Channels 1-14 are assumed 2.4 GHz since 6 GHz rows normally carry a frequency.
func GuessBandForChannel(channel int) WiFiBand {
	switch {
	case channel >= 1 && channel <= 14:
		return Band24GHz
	case channel >= 32 && channel <= 177:
		return Band5GHz
	}
	return BandUnknown
}

// ChannelLabel renders a frequency as "ch 36 (5GHz)" or the raw MHz value.
func ChannelLabel(freq int) string {
	if ch, ok := ChannelForFrequency(freq); ok {
		return fmt.Sprintf("ch %d (%s)", ch, BandForFrequency(freq))
	}
	return fmt.Sprintf("%d MHz", freq)
}

// WifiStandard is the Wi-Fi generation code reported by the platform.
type WifiStandard int

const (
	StandardUnknown WifiStandard = 0
	Standard80211b  WifiStandard = 1
	Standard80211a  WifiStandard = 2
	Standard80211g  WifiStandard = 3
	Standard80211n  WifiStandard = 4
	Standard80211ac WifiStandard = 5
	Standard80211ax WifiStandard = 6
	Standard80211be WifiStandard = 7
)

func (s WifiStandard) String() string {
	switch s {
	case Standard80211b:
		return "802.11b"
	case Standard80211a:
		return "802.11a"
	case Standard80211g:
		return "802.11g"
	case Standard80211n:
		return "802.11n"
	case Standard80211ac:
		return "802.11ac"
	case Standard80211ax:
		return "802.11ax"
	case Standard80211be:
		return "802.11be"
	}
	return "unknown"
}

// Known reports whether the generation code is one of the defined standards.
func (s WifiStandard) Known() bool {
	return s >= Standard80211b && s <= Standard80211be
}

// PreAX reports whether the standard predates 802.11ax.
func (s WifiStandard) PreAX() bool {
	return s.Known() && s < Standard80211ax
}
