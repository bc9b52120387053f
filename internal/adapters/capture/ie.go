package capture

// Element IDs and fixed field sizes of 802.11 management frame bodies.
const (
	elementSSID = 0

	// Timestamp, beacon interval and capability info precede the elements
	// of beacons and probe responses.
	fixedBeaconFields = 12
)

// iterateElements calls fn for each complete information element in data.
// It stops at the first element whose length runs past the end of data, so a
// trailing FCS or a truncated vendor element never hides the elements before it.
// Returning false from fn stops the walk.
func iterateElements(data []byte, fn func(id int, body []byte) bool) {
	offset := 0
	for offset+2 <= len(data) {
		id := int(data[offset])
		length := int(data[offset+1])
		offset += 2
		if offset+length > len(data) {
			return
		}
		if !fn(id, data[offset:offset+length]) {
			return
		}
		offset += length
	}
}

// findSSID returns the first SSID element of a beacon or probe-response body.
// Hidden SSIDs (empty or zero-filled) yield "".
func findSSID(body []byte) string {
	if len(body) < fixedBeaconFields {
		return ""
	}
	var ssid string
	iterateElements(body[fixedBeaconFields:], func(id int, value []byte) bool {
		if id != elementSSID {
			return true
		}
		if !isHidden(value) {
			ssid = string(value)
		}
		return false
	})
	return ssid
}

func isHidden(value []byte) bool {
	for _, b := range value {
		if b != 0 {
			return false
		}
	}
	return true
}
