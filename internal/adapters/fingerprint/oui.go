package fingerprint

import (
	"bufio"
	"bytes"
	"strings"
)

// ParseTable reads an OUI table into a map keyed by six upper-case hex digits.
// Two line formats are accepted:
//
//	ACD75B=Vendor Name
//	AC:D7:5B Vendor Name   (also AC-D7-5B)
//
// Blank lines, comments starting with '#' and lines with a malformed key are ignored.
func ParseTable(data []byte) map[string]string {
	table := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rawKey, vendor string
		if k, v, ok := strings.Cut(line, "="); ok {
			rawKey, vendor = k, v
		} else if len(line) > 8 && (line[2] == ':' || line[2] == '-') {
			// "XX:XX:XX Vendor" as found in IEEE-derived text dumps.
			rawKey, vendor = line[:8], line[8:]
		} else {
			continue
		}

		key, ok := normalizeKey(rawKey)
		vendor = strings.TrimSpace(vendor)
		if !ok || vendor == "" {
			continue
		}
		table[key] = vendor
	}
	return table
}

// normalizeKey turns "ac:d7:5b", "AC-D7-5B" or "acd75b" into "ACD75B".
func normalizeKey(raw string) (string, bool) {
	key := strings.ToUpper(strings.NewReplacer(":", "", "-", "", ".", "").Replace(strings.TrimSpace(raw)))
	if len(key) != 6 {
		return "", false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return "", false
		}
	}
	return key, true
}
