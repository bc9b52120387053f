package domain

import (
	"sort"
	"strings"
)

// SecurityLevel ranks the protection advertised by a capability string.
// Higher values are stronger.
type SecurityLevel int

const (
	SecurityOpen SecurityLevel = iota
	SecurityWEP
	SecurityWPA
	SecurityWPAEnterprise
	SecurityWPA2
	SecurityWPA2Enterprise
	SecurityWPA3
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityWEP:
		return "WEP"
	case SecurityWPA:
		return "WPA"
	case SecurityWPAEnterprise:
		return "WPA-Enterprise"
	case SecurityWPA2:
		return "WPA2"
	case SecurityWPA2Enterprise:
		return "WPA2-Enterprise"
	case SecurityWPA3:
		return "WPA3"
	}
	return "Open"
}

// ClassifySecurity derives the strongest security label from a capability string.
func ClassifySecurity(capabilities string) SecurityLevel {
	caps := strings.ToUpper(capabilities)
	enterprise := strings.Contains(caps, "EAP")

	switch {
	case strings.Contains(caps, "SAE") || strings.Contains(caps, "WPA3"):
		return SecurityWPA3
	case strings.Contains(caps, "WPA2") || strings.Contains(caps, "RSN"):
		if enterprise {
			return SecurityWPA2Enterprise
		}
		return SecurityWPA2
	case strings.Contains(caps, "WPA"):
		if enterprise {
			return SecurityWPAEnterprise
		}
		return SecurityWPA
	case strings.Contains(caps, "WEP"):
		return SecurityWEP
	}
	return SecurityOpen
}

// IsOpenCapabilities reports whether caps lacks any WPA/WEP/SAE token.
func IsOpenCapabilities(caps string) bool {
	up := strings.ToUpper(caps)
	return !strings.Contains(up, "WPA") && !strings.Contains(up, "WEP") && !strings.Contains(up, "SAE")
}

// HasWPS reports whether caps advertises WPS.
func HasWPS(caps string) bool {
	return strings.Contains(strings.ToUpper(caps), "WPS")
}

var infrastructureTags = map[string]bool{
	"ESS":  true,
	"BSS":  true,
	"IBSS": true,
	"WPS":  true,
}

// CapabilityGroups splits "[WPA2-PSK-CCMP][ESS]" into its bracketed groups, upper-cased.
// Text outside brackets is treated as one more group.
func CapabilityGroups(caps string) []string {
	var groups []string
	for _, field := range strings.FieldsFunc(caps, func(r rune) bool {
		return r == '[' || r == ']'
	}) {
		field = strings.ToUpper(strings.TrimSpace(field))
		if field != "" {
			groups = append(groups, field)
		}
	}
	return groups
}

// SecurityCapabilities strips infrastructure-only tags ([ESS], [BSS], [IBSS], [WPS])
// and returns the remaining groups in a canonical order.
func SecurityCapabilities(caps string) string {
	var kept []string
	for _, g := range CapabilityGroups(caps) {
		if !infrastructureTags[g] {
			kept = append(kept, g)
		}
	}
	sort.Strings(kept)
	return strings.Join(kept, ",")
}

// CapabilityAtoms returns the set of individual tokens, e.g. {WPA2, PSK, CCMP, ESS}.
func CapabilityAtoms(caps string) map[string]struct{} {
	atoms := make(map[string]struct{})
	for _, g := range CapabilityGroups(caps) {
		for _, a := range strings.FieldsFunc(g, func(r rune) bool {
			return r == '-' || r == '+' || r == ' ' || r == ','
		}) {
			atoms[a] = struct{}{}
		}
	}
	return atoms
}
