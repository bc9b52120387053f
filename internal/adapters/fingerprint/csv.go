package fingerprint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrUnknownCSVLayout indicates a CSV header with no recognizable prefix or vendor column.
var ErrUnknownCSVLayout = errors.New("unrecognized OUI CSV layout")

// ConvertCSV turns an OUI registry CSV export into a KEY=VALUE table accepted by ParseTable.
// Supported layouts are the IEEE MA-L registry ("Registry,Assignment,Organization Name,...")
// and maclookup dumps ("Mac Prefix,Vendor Name,..."). Only 24-bit prefixes are kept.
// It returns the table and the number of rows that were dropped.
func ConvertCSV(r io.Reader) ([]byte, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read OUI CSV header: %w", err)
	}
	prefixCol, vendorCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "assignment", "mac prefix", "oui", "prefix":
			prefixCol = i
		case "organization name", "vendor name", "vendor", "company":
			vendorCol = i
		}
	}
	if prefixCol < 0 || vendorCol < 0 {
		return nil, 0, ErrUnknownCSVLayout
	}

	table := make(map[string]string)
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if prefixCol >= len(record) || vendorCol >= len(record) {
			dropped++
			continue
		}

		key, ok := normalizeKey(record[prefixCol])
		vendor := strings.Join(strings.Fields(record[vendorCol]), " ")
		if !ok || vendor == "" {
			dropped++
			continue
		}
		table[key] = vendor
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(table[k])
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), dropped, nil
}
