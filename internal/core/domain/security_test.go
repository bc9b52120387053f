package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySecurity(t *testing.T) {
	tests := []struct {
		caps  string
		level SecurityLevel
	}{
		{"[ESS]", SecurityOpen},
		{"", SecurityOpen},
		{"[WEP][ESS]", SecurityWEP},
		{"[WPA-PSK-TKIP][ESS]", SecurityWPA},
		{"[WPA-EAP-TKIP][ESS]", SecurityWPAEnterprise},
		{"[WPA2-PSK-CCMP][ESS]", SecurityWPA2},
		{"[RSN-PSK-CCMP][ESS]", SecurityWPA2},
		{"[WPA2-EAP-CCMP][ESS]", SecurityWPA2Enterprise},
		{"[WPA2-PSK-CCMP][RSN-SAE-CCMP][ESS]", SecurityWPA3},
		{"[wpa2-psk-ccmp]", SecurityWPA2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, ClassifySecurity(tt.caps), tt.caps)
	}
}

func TestSecurityLevelOrdering(t *testing.T) {
	order := []SecurityLevel{
		SecurityOpen, SecurityWEP, SecurityWPA, SecurityWPAEnterprise,
		SecurityWPA2, SecurityWPA2Enterprise, SecurityWPA3,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
	assert.Equal(t, "WPA2-Enterprise", SecurityWPA2Enterprise.String())
	assert.Equal(t, "Open", SecurityOpen.String())
}

func TestIsOpenCapabilities(t *testing.T) {
	assert.True(t, IsOpenCapabilities("[ESS]"))
	assert.True(t, IsOpenCapabilities("[ESS][WPS]"))
	assert.False(t, IsOpenCapabilities("[wep]"))
	assert.False(t, IsOpenCapabilities("[RSN-SAE-CCMP]"))
}

func TestSecurityCapabilities(t *testing.T) {
	assert.Equal(t, "WPA2-PSK-CCMP", SecurityCapabilities("[WPA2-PSK-CCMP][ESS][WPS]"))
	assert.Equal(t,
		SecurityCapabilities("[WPA2-PSK-CCMP][WPA-PSK-TKIP][ESS]"),
		SecurityCapabilities("[ESS][WPA-PSK-TKIP][WPA2-PSK-CCMP]"))
	assert.Empty(t, SecurityCapabilities("[ESS][BSS][IBSS][WPS]"))
}

func TestCapabilityAtoms(t *testing.T) {
	atoms := CapabilityAtoms("[WPA2-PSK-CCMP+TKIP][ESS]")
	for _, want := range []string{"WPA2", "PSK", "CCMP", "TKIP", "ESS"} {
		assert.Contains(t, atoms, want)
	}
	assert.Len(t, atoms, 5)
	assert.True(t, HasWPS("[ESS][wps]"))
}
