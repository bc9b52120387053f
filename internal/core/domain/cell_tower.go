package domain

import (
	"fmt"
	"time"
)

// CellTowerRecord is one imported cell tower geolocation row.
type CellTowerRecord struct {
	Radio     string  `json:"radio"` // GSM, UMTS, LTE, NR, CDMA
	MCC       int     `json:"mcc"`
	MNC       int     `json:"mnc"`
	LAC       int     `json:"lac"`
	CID       int64   `json:"cid"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Range     int     `json:"range,omitempty"`   // meters
	Samples   int     `json:"samples,omitempty"` // measurements backing the position
}

// Key identifies a tower independently of its position.
func (c CellTowerRecord) Key() string {
	return fmt.Sprintf("%s/%d/%d/%d/%d", c.Radio, c.MCC, c.MNC, c.LAC, c.CID)
}

// PinnedNetwork is a BSSID the user asked to track over time.
type PinnedNetwork struct {
	ID       string    `json:"id"`
	BSSID    string    `json:"bssid"`
	SSID     string    `json:"ssid,omitempty"`
	Note     string    `json:"note,omitempty"`
	PinnedAt time.Time `json:"pinned_at"`
}
