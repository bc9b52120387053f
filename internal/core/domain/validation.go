package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// BSSID Helpers

var bssidRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// IsValidBSSID checks that s is a 6-octet colon-hex address.
func IsValidBSSID(s string) bool {
	return bssidRegex.MatchString(s)
}

// NormalizeBSSID upper-cases s and converts '-' separators to ':'.
// Strings that do not become a valid BSSID are returned trimmed but otherwise untouched.
func NormalizeBSSID(s string) string {
	s = strings.TrimSpace(s)
	candidate := strings.ToUpper(strings.ReplaceAll(s, "-", ":"))
	if IsValidBSSID(candidate) {
		return candidate
	}
	return s
}

// BSSIDOctets parses a BSSID into its six octets.
func BSSIDOctets(bssid string) ([6]byte, bool) {
	var out [6]byte
	if !IsValidBSSID(strings.TrimSpace(bssid)) {
		return out, false
	}
	parts := strings.Split(strings.TrimSpace(bssid), ":")
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return out, false
		}
		out[i] = byte(v)
	}
	return out, true
}

// OUIKey derives the vendor lookup key from the first three octets,
// e.g. "AC:D7:5B:A1:8F:96" -> "ACD75B". Only those three octets are validated.
func OUIKey(bssid string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(bssid), ":")
	if len(parts) < 3 {
		return "", false
	}
	var sb strings.Builder
	for _, p := range parts[:3] {
		if len(p) != 2 || !isHex(p[0]) || !isHex(p[1]) {
			return "", false
		}
		sb.WriteString(p)
	}
	return strings.ToUpper(sb.String()), true
}

// IsLocallyAdministered checks bit 0x02 of the first octet.
// Vendor-assigned addresses never set it.
func IsLocallyAdministered(bssid string) bool {
	octets, ok := BSSIDOctets(bssid)
	if !ok {
		return false
	}
	return octets[0]&0x02 != 0
}

// SharedPrefixOctets counts leading octets two BSSIDs have in common.
func SharedPrefixOctets(a, b string) int {
	oa, okA := BSSIDOctets(a)
	ob, okB := BSSIDOctets(b)
	if !okA || !okB {
		return 0
	}
	n := 0
	for i := range oa {
		if oa[i] != ob[i] {
			break
		}
		n++
	}
	return n
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
