package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
	"github.com/lcalzada-xor/wguard/internal/fsutil"
)

// DefaultMaxRecords is the history capacity used when none is configured.
const DefaultMaxRecords = 50

// FileScanStore keeps the scan history in a single JSON file.
// It does no locking; callers must serialize AppendRecord, ClearHistory and ImportExternalRecords.
type FileScanStore struct {
	path       string
	maxRecords int
}

// NewFileScanStore creates a store backed by path. maxRecords <= 0 selects DefaultMaxRecords.
func NewFileScanStore(path string, maxRecords int) *FileScanStore {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &FileScanStore{path: path, maxRecords: maxRecords}
}

// Path returns the backing file path.
func (s *FileScanStore) Path() string {
	return s.path
}

// MaxRecords returns the history capacity.
func (s *FileScanStore) MaxRecords() int {
	return s.maxRecords
}

// LoadHistory returns the stored records newest first.
// Missing, unreadable or corrupt files produce an empty history.
func (s *FileScanStore) LoadHistory() []domain.ScanRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read scan history", "path", s.path, "error", err)
		}
		return []domain.ScanRecord{}
	}
	if len(data) == 0 {
		return []domain.ScanRecord{}
	}

	records, _ := DecodeHistory(data)
	domain.SortNewestFirst(records)
	return records
}

// AppendRecord prepends record and evicts the oldest records beyond capacity.
func (s *FileScanStore) AppendRecord(record domain.ScanRecord) error {
	history := s.LoadHistory()
	merged := make([]domain.ScanRecord, 0, len(history)+1)
	merged = append(merged, record)
	merged = append(merged, history...)

	return s.persist(merged)
}

// ClearHistory removes the backing file.
func (s *FileScanStore) ClearHistory() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear scan history: %w", err)
	}
	return nil
}

// ImportExternalRecords merges records into day buckets keyed by UTC midnight.
// A network is added only if no stored record of the same UTC day, live scans
// included, already holds its BSSID. Live scans keep their own timestamps and are
// never folded into a bucket. It returns the number of networks added that are
// still present after the history is trimmed to capacity.
func (s *FileScanStore) ImportExternalRecords(records []domain.ScanRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	history := s.LoadHistory()

	buckets := make(map[int64]int)
	known := make(map[int64]map[string]struct{})
	for i, r := range history {
		day := dayStart(r.Timestamp)
		if day.Equal(r.Timestamp) {
			buckets[day.UnixMilli()] = i
		}
		present := daySet(known, day)
		for _, n := range r.Networks {
			present[dedupKey(n)] = struct{}{}
		}
	}

	addedByDay := make(map[int64]int)
	for _, rec := range records {
		day := dayStart(rec.Timestamp)
		present := daySet(known, day)

		var fresh []domain.NetworkObservation
		for _, n := range rec.Networks {
			key := dedupKey(n)
			if _, dup := present[key]; dup {
				continue
			}
			present[key] = struct{}{}
			fresh = append(fresh, n)
		}
		if len(fresh) == 0 {
			continue
		}

		idx, ok := buckets[day.UnixMilli()]
		if !ok {
			history = append(history, domain.ScanRecord{Timestamp: day})
			idx = len(history) - 1
			buckets[day.UnixMilli()] = idx
		}
		history[idx].Networks = append(history[idx].Networks, fresh...)
		addedByDay[day.UnixMilli()] += len(fresh)
	}
	if len(addedByDay) == 0 {
		return 0, nil
	}

	kept := s.trim(history)
	if err := s.write(kept); err != nil {
		return 0, err
	}

	added := 0
	for _, r := range kept {
		ms := r.Timestamp.UnixMilli()
		if n, ok := addedByDay[ms]; ok && dayStart(r.Timestamp).Equal(r.Timestamp) {
			added += n
			delete(addedByDay, ms)
		}
	}
	return added, nil
}

// persist sorts, trims to capacity and atomically rewrites the backing file.
func (s *FileScanStore) persist(records []domain.ScanRecord) error {
	return s.write(s.trim(records))
}

// trim sorts records newest first and drops those beyond capacity.
func (s *FileScanStore) trim(records []domain.ScanRecord) []domain.ScanRecord {
	domain.SortNewestFirst(records)
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}
	return records
}

func (s *FileScanStore) write(records []domain.ScanRecord) error {
	data, err := EncodeHistory(records)
	if err != nil {
		return fmt.Errorf("encode scan history: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, data)
}

func daySet(sets map[int64]map[string]struct{}, day time.Time) map[string]struct{} {
	set, ok := sets[day.UnixMilli()]
	if !ok {
		set = make(map[string]struct{})
		sets[day.UnixMilli()] = set
	}
	return set
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dedupKey identifies a network inside a day bucket. Entries without a BSSID fall back to SSID and frequency.
func dedupKey(n domain.NetworkObservation) string {
	if key := n.Key(); key != "" {
		return key
	}
	return n.SSID + "|" + strconv.Itoa(n.Frequency)
}

// Ensure interface compliance
var _ ports.ScanStore = (*FileScanStore)(nil)
