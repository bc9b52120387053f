package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// newReader returns an RFC 4180 reader that tolerates ragged rows.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// readRow returns the next record. ok is false at end of input or on an unrecoverable I/O error;
// malformed rows come back with malformed set so the caller can count them.
func readRow(cr *csv.Reader) (row []string, malformed, ok bool) {
	row, err := cr.Read()
	if err == nil {
		return row, false, true
	}
	if errors.Is(err, io.EOF) {
		return nil, false, false
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return nil, true, true
	}
	return nil, false, false
}

// columnIndex maps lower-cased header names to their position.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

// find returns the position of the first alias present in the header.
func (c columnIndex) find(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := c[a]; ok {
			return i, true
		}
	}
	return -1, false
}

// field returns the trimmed value at i, or "" when the row is too short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
