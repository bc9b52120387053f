package storage

import (
	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// toCellTowerModel converts a domain tower to a database model.
func toCellTowerModel(t domain.CellTowerRecord) CellTowerModel {
	return CellTowerModel{
		Radio:     t.Radio,
		MCC:       t.MCC,
		MNC:       t.MNC,
		LAC:       t.LAC,
		CID:       t.CID,
		Longitude: t.Longitude,
		Latitude:  t.Latitude,
		Range:     t.Range,
		Samples:   t.Samples,
	}
}

// toCellTowerDomain converts a database model to a domain tower.
func toCellTowerDomain(m CellTowerModel) domain.CellTowerRecord {
	return domain.CellTowerRecord{
		Radio:     m.Radio,
		MCC:       m.MCC,
		MNC:       m.MNC,
		LAC:       m.LAC,
		CID:       m.CID,
		Longitude: m.Longitude,
		Latitude:  m.Latitude,
		Range:     m.Range,
		Samples:   m.Samples,
	}
}

func toPinnedModel(p domain.PinnedNetwork) PinnedModel {
	return PinnedModel{
		ID:       p.ID,
		BSSID:    p.BSSID,
		SSID:     p.SSID,
		Note:     p.Note,
		PinnedAt: p.PinnedAt,
	}
}

func toPinnedDomain(m PinnedModel) domain.PinnedNetwork {
	return domain.PinnedNetwork{
		ID:       m.ID,
		BSSID:    m.BSSID,
		SSID:     m.SSID,
		Note:     m.Note,
		PinnedAt: m.PinnedAt.UTC(),
	}
}
