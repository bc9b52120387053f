package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandForFrequency(t *testing.T) {
	tests := []struct {
		freq int
		band WiFiBand
	}{
		{2412, Band24GHz},
		{2484, Band24GHz},
		{5180, Band5GHz},
		{5885, Band5GHz},
		{5955, Band6GHz},
		{7115, Band6GHz},
		{0, BandUnknown},
		{900, BandUnknown},
		{8000, BandUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.band, BandForFrequency(tt.freq), "freq %d", tt.freq)
	}
}

func TestChannelFrequencyRoundTrip(t *testing.T) {
	tests := []struct {
		freq    int
		channel int
		band    WiFiBand
	}{
		{2412, 1, Band24GHz},
		{2437, 6, Band24GHz},
		{2472, 13, Band24GHz},
		{2484, 14, Band24GHz},
		{5180, 36, Band5GHz},
		{5825, 165, Band5GHz},
		{5955, 1, Band6GHz},
		{6115, 33, Band6GHz},
	}

	for _, tt := range tests {
		ch, ok := ChannelForFrequency(tt.freq)
		assert.True(t, ok, "freq %d", tt.freq)
		assert.Equal(t, tt.channel, ch, "freq %d", tt.freq)

		freq, ok := FrequencyForChannel(tt.channel, tt.band)
		assert.True(t, ok)
		assert.Equal(t, tt.freq, freq)
	}
}

func TestChannelForFrequency_Unresolvable(t *testing.T) {
	for _, freq := range []int{0, 2400, 2413, 5000, 9999} {
		_, ok := ChannelForFrequency(freq)
		assert.False(t, ok, "freq %d", freq)
	}
}

func TestGuessBandForChannel(t *testing.T) {
	assert.Equal(t, Band24GHz, GuessBandForChannel(6))
	assert.Equal(t, Band5GHz, GuessBandForChannel(36))
	assert.Equal(t, BandUnknown, GuessBandForChannel(0))
	assert.Equal(t, BandUnknown, GuessBandForChannel(200))
}

func TestChannelLabel(t *testing.T) {
	assert.Equal(t, "ch 36 (5GHz)", ChannelLabel(5180))
	assert.Equal(t, "1234 MHz", ChannelLabel(1234))
}

func TestWifiStandard(t *testing.T) {
	assert.Equal(t, "802.11ac", Standard80211ac.String())
	assert.Equal(t, "unknown", StandardUnknown.String())
	assert.False(t, StandardUnknown.Known())
	assert.False(t, StandardUnknown.PreAX())
	assert.True(t, Standard80211n.PreAX())
	assert.False(t, Standard80211ax.PreAX())
	assert.False(t, Standard80211be.PreAX())
}
