package fingerprint

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
	"github.com/lcalzada-xor/wguard/internal/fsutil"
)

// DefaultMinEntries is the smallest table Refresh accepts.
const DefaultMinEntries = 10

//go:embed data/oui_default.txt
var bundledTable []byte

// Table sources reported by Resolver.Source.
const (
	SourceNone    = ""
	SourceCache   = "cache"
	SourceBundled = "bundled"
)

// Resolver maps BSSIDs to manufacturer names.
// The table is parsed lazily on first lookup, preferring the cache file over the bundled table.
type Resolver struct {
	cachePath  string
	bundled    []byte
	minEntries int

	mu     sync.RWMutex
	table  map[string]string
	source string
}

// NewResolver creates a resolver backed by cachePath with the bundled default table as fallback.
func NewResolver(cachePath string) *Resolver {
	return NewResolverWithTable(cachePath, bundledTable)
}

// NewResolverWithTable is NewResolver with an explicit fallback table.
func NewResolverWithTable(cachePath string, bundled []byte) *Resolver {
	return &Resolver{
		cachePath:  cachePath,
		bundled:    bundled,
		minEntries: DefaultMinEntries,
	}
}

// Lookup returns the manufacturer for bssid, or "" when the BSSID is malformed or the OUI unknown.
func (r *Resolver) Lookup(bssid string) string {
	key, ok := domain.OUIKey(bssid)
	if !ok {
		return ""
	}
	r.LoadIfAbsent()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table[key]
}

// LoadIfAbsent parses the table unless it is already in memory.
func (r *Resolver) LoadIfAbsent() {
	r.mu.RLock()
	loaded := r.table != nil
	r.mu.RUnlock()
	if loaded {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.table != nil {
		return
	}

	if r.cachePath != "" {
		data, err := os.ReadFile(r.cachePath)
		switch {
		case err == nil:
			if table := ParseTable(data); len(table) > 0 {
				r.table, r.source = table, SourceCache
				slog.Debug("OUI table loaded", "source", SourceCache, "entries", len(table))
				return
			}
			slog.Warn("OUI cache file holds no entries, using bundled table", "path", r.cachePath)
		case !errors.Is(err, fs.ErrNotExist):
			slog.Warn("Failed to read OUI cache, using bundled table", "path", r.cachePath, "error", err)
		}
	}

	r.table, r.source = ParseTable(r.bundled), SourceBundled
	slog.Debug("OUI table loaded", "source", SourceBundled, "entries", len(r.table))
}

// Invalidate drops the in-memory table so the next lookup re-parses.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.table, r.source = nil, SourceNone
	r.mu.Unlock()
}

// Refresh validates data, writes it to the cache file and invalidates the in-memory table.
// Data with fewer than the minimum number of entries is refused and the cache is left untouched.
func (r *Resolver) Refresh(data []byte) (int, error) {
	table := ParseTable(data)
	if len(table) < r.minEntries {
		return 0, &ValidationError{
			Field: "entries",
			Value: strconv.Itoa(len(table)),
			Err:   fmt.Errorf("%w: need at least %d", ErrTooFewEntries, r.minEntries),
		}
	}
	if r.cachePath == "" {
		return 0, ErrNoCachePath
	}

	if err := fsutil.WriteFileAtomic(r.cachePath, data); err != nil {
		return 0, &CacheError{Op: "write", Path: r.cachePath, Err: err}
	}
	r.Invalidate()
	return len(table), nil
}

// Len returns the number of entries, loading the table if needed.
func (r *Resolver) Len() int {
	r.LoadIfAbsent()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// Source reports where the in-memory table came from, or "" when nothing is loaded.
func (r *Resolver) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Ensure interface compliance
var _ ports.VendorResolver = (*Resolver)(nil)
