package importer

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// CellTowerResult is the outcome of parsing one OpenCellID export.
type CellTowerResult struct {
	Towers   []domain.CellTowerRecord
	Imported int
	Skipped  int
}

// ParseOpenCellID reads a single-header OpenCellID CSV. Rows missing any of radio, mcc, mnc, lac, cid,
// lon or lat, or carrying non-numeric values there, are skipped and counted. It never fails.
func ParseOpenCellID(r io.Reader) CellTowerResult {
	cr := newReader(r)
	res := CellTowerResult{Towers: []domain.CellTowerRecord{}}

	header, malformed, ok := readRow(cr)
	if !ok {
		return res
	}
	if malformed {
		res.Skipped++
		header = nil
	}

	idx := indexHeader(header)
	radio, okRadio := idx.find("radio")
	mcc, okMCC := idx.find("mcc")
	mnc, okMNC := idx.find("mnc", "net")
	lac, okLAC := idx.find("lac", "area", "tac")
	cid, okCID := idx.find("cid", "cell")
	lon, okLon := idx.find("lon", "longitude")
	lat, okLat := idx.find("lat", "latitude")
	rng, _ := idx.find("range")
	samples, _ := idx.find("samples")
	complete := okRadio && okMCC && okMNC && okLAC && okCID && okLon && okLat
	if !complete && header != nil {
		slog.Debug("OpenCellID header lacks required columns", "header", strings.Join(header, ","))
	}

	for {
		row, malformed, ok := readRow(cr)
		if !ok {
			break
		}
		if !malformed && blankRow(row) {
			continue
		}
		if malformed || !complete {
			res.Skipped++
			continue
		}

		tower, ok := parseTowerRow(row, radio, mcc, mnc, lac, cid, lon, lat)
		if !ok {
			res.Skipped++
			continue
		}
		if v, ok := parseInt(field(row, rng)); ok {
			tower.Range = int(v)
		}
		if v, ok := parseInt(field(row, samples)); ok {
			tower.Samples = int(v)
		}
		res.Towers = append(res.Towers, tower)
		res.Imported++
	}

	if res.Skipped > 0 {
		slog.Debug("OpenCellID rows skipped", "skipped", res.Skipped, "imported", res.Imported)
	}
	return res
}

func parseTowerRow(row []string, radio, mcc, mnc, lac, cid, lon, lat int) (domain.CellTowerRecord, bool) {
	var t domain.CellTowerRecord

	t.Radio = strings.ToUpper(field(row, radio))
	if t.Radio == "" {
		return t, false
	}

	ints := []struct {
		col int
		set func(int64)
	}{
		{mcc, func(v int64) { t.MCC = int(v) }},
		{mnc, func(v int64) { t.MNC = int(v) }},
		{lac, func(v int64) { t.LAC = int(v) }},
		{cid, func(v int64) { t.CID = v }},
	}
	for _, f := range ints {
		v, ok := parseInt(field(row, f.col))
		if !ok {
			return t, false
		}
		f.set(v)
	}

	var ok bool
	if t.Longitude, ok = parseFinite(field(row, lon)); !ok {
		return t, false
	}
	if t.Latitude, ok = parseFinite(field(row, lat)); !ok {
		return t, false
	}
	return t, true
}
