package fingerprint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTable(n int, vendor string) []byte {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "AABB%02X=%s %d\n", i, vendor, i)
	}
	return []byte(sb.String())
}

func TestParseTable(t *testing.T) {
	data := []byte(`# comment
ACD75B=Acme Corp
ac:d7:5c  Lowercase Colon Ltd
AC-D7-5D	Dash Inc
ZZZZZZ=Not Hex
ACD7=Too Short
ACD75E=
garbage line
`)
	table := ParseTable(data)
	assert.Equal(t, map[string]string{
		"ACD75B": "Acme Corp",
		"ACD75C": "Lowercase Colon Ltd",
		"ACD75D": "Dash Inc",
	}, table)

	assert.Empty(t, ParseTable(nil))
}

func TestBundledTable(t *testing.T) {
	table := ParseTable(bundledTable)
	assert.GreaterOrEqual(t, len(table), DefaultMinEntries)
	assert.Equal(t, "VMware, Inc.", table["005056"])
}

func TestResolver_LookupFromBundled(t *testing.T) {
	r := NewResolver(filepath.Join(t.TempDir(), "oui.txt"))

	assert.Equal(t, SourceNone, r.Source())
	assert.Equal(t, "Raspberry Pi Foundation", r.Lookup("b8:27:eb:12:34:56"))
	assert.Equal(t, SourceBundled, r.Source())

	assert.Empty(t, r.Lookup("FE:FF:FF:00:00:00"))
	assert.Empty(t, r.Lookup("not-a-mac"))
	assert.Empty(t, r.Lookup("B8:27"))
}

func TestResolver_PrefersCacheFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oui.txt")
	require.NoError(t, os.WriteFile(path, []byte("B827EB=Cached Vendor\n"), 0o644))

	r := NewResolver(path)
	assert.Equal(t, "Cached Vendor", r.Lookup("B8:27:EB:00:00:01"))
	assert.Equal(t, SourceCache, r.Source())
	assert.Equal(t, 1, r.Len())
}

func TestResolver_EmptyCacheFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oui.txt")
	require.NoError(t, os.WriteFile(path, []byte("<html>error</html>\n"), 0o644))

	r := NewResolverWithTable(path, []byte("ACD75B=Fallback Co\n"))
	assert.Equal(t, "Fallback Co", r.Lookup("AC:D7:5B:A1:8F:96"))
	assert.Equal(t, SourceBundled, r.Source())
}

func TestResolver_Refresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "oui.txt")
	r := NewResolverWithTable(path, []byte("AABB00=Old Vendor\n"))
	assert.Equal(t, "Old Vendor", r.Lookup("AA:BB:00:00:00:01"))

	n, err := r.Refresh(validTable(12, "New Vendor"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	// The in-memory table was invalidated; the next lookup re-reads the cache.
	assert.Equal(t, SourceNone, r.Source())
	assert.Equal(t, "New Vendor 0", r.Lookup("AA:BB:00:00:00:01"))
	assert.Equal(t, SourceCache, r.Source())

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, validTable(12, "New Vendor"), onDisk)
}

func TestResolver_RefreshRejectsSmallTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oui.txt")
	r := NewResolverWithTable(path, []byte("AABB00=Old Vendor\n"))
	assert.Equal(t, "Old Vendor", r.Lookup("AA:BB:00:00:00:01"))

	_, err := r.Refresh([]byte("<html><body>502 Bad Gateway</body></html>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooFewEntries))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = r.Refresh(validTable(DefaultMinEntries-1, "X"))
	assert.ErrorIs(t, err, ErrTooFewEntries)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "cache must not be written")
	assert.Equal(t, "Old Vendor", r.Lookup("AA:BB:00:00:00:01"), "in-memory table must survive")
}

func TestResolver_RefreshWithoutPath(t *testing.T) {
	r := NewResolverWithTable("", nil)
	_, err := r.Refresh(validTable(DefaultMinEntries, "X"))
	assert.ErrorIs(t, err, ErrNoCachePath)
}
