package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wguard/internal/adapters/storage"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
	"github.com/lcalzada-xor/wguard/internal/core/services/change"
	"github.com/lcalzada-xor/wguard/internal/core/services/threat"
	"github.com/lcalzada-xor/wguard/internal/geo"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// manualClock returns a settable instant.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memCellStore struct {
	towers []domain.CellTowerRecord
}

func (m *memCellStore) SaveCellTowers(_ context.Context, towers []domain.CellTowerRecord) (int, error) {
	m.towers = append(m.towers, towers...)
	return len(towers), nil
}

func (m *memCellStore) ListCellTowers(_ context.Context, limit int) ([]domain.CellTowerRecord, error) {
	if limit > 0 && limit < len(m.towers) {
		return m.towers[:limit], nil
	}
	return m.towers, nil
}

func (m *memCellStore) CountCellTowers(context.Context) (int64, error) {
	return int64(len(m.towers)), nil
}

type failingStore struct {
	ports.ScanStore
}

func (failingStore) LoadHistory() []domain.ScanRecord { return nil }

func (failingStore) AppendRecord(domain.ScanRecord) error { return errors.New("disk full") }

func newTestService(t *testing.T, clock ports.Clock, opts ...Option) (*Service, *storage.FileScanStore) {
	t.Helper()
	store := storage.NewFileScanStore(filepath.Join(t.TempDir(), "scans.json"), 10)
	opts = append([]Option{WithClock(clock)}, opts...)
	svc := NewService(store, threat.NewAnalyzer(threat.DefaultConfig(), clock), change.NewAnalyzer(change.DefaultConfig()), opts...)
	return svc, store
}

func net(ssid, bssid, caps string, rssi int) domain.NetworkObservation {
	return domain.NetworkObservation{
		SSID:         ssid,
		BSSID:        bssid,
		Capabilities: caps,
		RSSI:         rssi,
		Frequency:    2437,
		Timestamp:    baseTime,
	}
}

func TestNewService(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, _ := newTestService(t, clock)

	assert.Len(t, svc.ID(), 36)
	assert.Equal(t, baseTime, svc.StartedAt())

	other, _ := newTestService(t, clock)
	assert.NotEqual(t, svc.ID(), other.ID())
}

func TestRunCycle_TagsAndPersists(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, store := newTestService(t, clock)

	raw := []domain.NetworkObservation{
		net("Cafe", "AC:D7:5B:00:00:01", "[ESS]", -60),
		net("Home", "AC:D7:5B:00:00:02", "[WPA2-PSK-CCMP][ESS]", -62),
	}

	res, err := svc.RunCycle(context.Background(), raw, domain.RootScanData{}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, baseTime, res.Record.Timestamp)
	assert.Nil(t, res.Changes)
	assert.Zero(t, res.NewNetworks)
	assert.True(t, res.Record.Networks[0].Threats.Has(domain.ThreatOpenNetwork))
	assert.False(t, res.Record.Networks[1].Threats.Has(domain.ThreatOpenNetwork))

	// The caller's slice is untouched.
	assert.True(t, raw[0].Threats.IsEmpty())

	history := store.LoadHistory()
	require.Len(t, history, 1)
	assert.Equal(t, res.Record.Networks, history[0].Networks)
}

func TestRunCycle_TracksSeenNetworks(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, _ := newTestService(t, clock)
	seen := NewSeenNetworks()
	ctx := context.Background()

	first := []domain.NetworkObservation{
		net("A", "AC:D7:5B:00:00:01", "[WPA2-PSK-CCMP][ESS]", -60),
		net("B", "AC:D7:5B:00:00:02", "[WPA2-PSK-CCMP][ESS]", -60),
	}
	res, err := svc.RunCycle(ctx, first, domain.RootScanData{}, seen, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewNetworks)

	clock.Advance(time.Minute)
	second := []domain.NetworkObservation{
		net("C", "AC:D7:5B:00:00:03", "[WPA2-PSK-CCMP][ESS]", -60),
		net("A", "AC:D7:5B:00:00:01", "[WPA2-PSK-CCMP][ESS]", -55),
	}
	res, err = svc.RunCycle(ctx, second, domain.RootScanData{}, seen, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewNetworks)

	require.Equal(t, 3, seen.Len())
	var order []string
	for _, n := range seen.List() {
		order = append(order, n.SSID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)

	a, ok := seen.Get("ac:d7:5b:00:00:01")
	require.True(t, ok)
	assert.Equal(t, -55, a.RSSI)
}

func TestRunCycle_WithChanges(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, _ := newTestService(t, clock)
	ctx := context.Background()

	_, err := svc.RunCycle(ctx, []domain.NetworkObservation{
		net("Office", "AC:D7:5B:00:00:01", "[WPA2-PSK-CCMP][ESS]", -60),
	}, domain.RootScanData{}, nil, true)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	res, err := svc.RunCycle(ctx, []domain.NetworkObservation{
		net("Office", "AC:D7:5B:00:00:01", "[ESS]", -60),
	}, domain.RootScanData{}, nil, true)
	require.NoError(t, err)

	require.NotNil(t, res.Changes)
	assert.Equal(t, 2, res.Changes.RecordsAnalyzed)
	require.NotEmpty(t, res.Changes.Changes)
	assert.Equal(t, domain.ChangeSecurityDowngrade, res.Changes.Changes[0].Type)

	again := svc.Changes(ctx)
	assert.Equal(t, *res.Changes, again)
}

func TestRunCycle_StampsLocation(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, _ := newTestService(t, clock, WithLocation(geo.NewStaticProvider(40.4168, -3.7038)))

	fixed := net("Fixed", "AC:D7:5B:00:00:02", "[WPA2-PSK-CCMP][ESS]", -60)
	fixed.GPS = &domain.GPSFix{Latitude: 1, Longitude: 2}

	res, err := svc.RunCycle(context.Background(), []domain.NetworkObservation{
		net("Bare", "AC:D7:5B:00:00:01", "[WPA2-PSK-CCMP][ESS]", -60),
		fixed,
	}, domain.RootScanData{}, nil, false)
	require.NoError(t, err)

	require.NotNil(t, res.Record.Networks[0].GPS)
	assert.Equal(t, 40.4168, res.Record.Networks[0].GPS.Latitude)
	assert.Nil(t, res.Record.Networks[0].GPS.Altitude, "a static position has no altitude")
	assert.Nil(t, res.Record.Networks[0].GPS.Accuracy)
	assert.Equal(t, 1.0, res.Record.Networks[1].GPS.Latitude)
}

func TestRunCycle_StoreFailure(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc := NewService(failingStore{}, threat.NewAnalyzer(threat.DefaultConfig(), clock), change.NewAnalyzer(change.DefaultConfig()), WithClock(clock))

	seen := NewSeenNetworks()
	_, err := svc.RunCycle(context.Background(), []domain.NetworkObservation{
		net("A", "AC:D7:5B:00:00:01", "[ESS]", -60),
	}, domain.RootScanData{}, seen, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, seen.Len(), "a failed cycle does not reach the accumulator")
}

func TestRunCycle_ConcurrentCyclesAreSerialized(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, store := newTestService(t, clock)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clock.Advance(time.Second)
			_, err := svc.RunCycle(context.Background(), []domain.NetworkObservation{
				net("N", "AC:D7:5B:00:00:01", "[WPA2-PSK-CCMP][ESS]", -60-i),
			}, domain.RootScanData{}, nil, false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.LoadHistory(), 8)
}

func TestClearHistory(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, _ := newTestService(t, clock)
	ctx := context.Background()

	_, err := svc.RunCycle(ctx, []domain.NetworkObservation{net("A", "AC:D7:5B:00:00:01", "[ESS]", -60)}, domain.RootScanData{}, nil, false)
	require.NoError(t, err)
	require.Len(t, svc.History(), 1)

	require.NoError(t, svc.ClearHistory(ctx))
	assert.Empty(t, svc.History())
}

func TestImportWigle(t *testing.T) {
	clock := &manualClock{t: baseTime}
	svc, store := newTestService(t, clock)

	input := "WigleWifi-1.4,appRelease=2.70,model=Pixel 7\n" +
		"MAC,SSID,AuthMode,FirstSeen,Channel,RSSI,CurrentLatitude,CurrentLongitude,AltitudeMeters,AccuracyMeters,Type\n" +
		"ac:d7:5b:a1:8f:96,HomeNet,[WPA2-PSK-CCMP][ESS],2026-03-14 09:30:00,6,-61,40.4168,-3.7038,657,5,WIFI\n" +
		"ac:d7:5b:a1:8f:97,Cafe,[ESS],2026-03-13 18:00:00,11,-70,0,0,0,0,WIFI\n" +
		"not-a-mac,Broken,[ESS],2026-03-13 18:00:00,11,-70,0,0,0,0,WIFI\n"

	summary, err := svc.ImportWigle(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Imported: 2, Skipped: 1, Added: 2}, summary)
	assert.Len(t, store.LoadHistory(), 2)

	// Importing the same file twice adds nothing.
	summary, err = svc.ImportWigle(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, summary.Added)
}

func TestImportOpenCellID(t *testing.T) {
	clock := &manualClock{t: baseTime}
	input := "radio,mcc,net,area,cell,unit,lon,lat,range,samples\n" +
		"LTE,214,7,2801,12345678,0,-3.7038,40.4168,1000,12\n" +
		"UMTS,214,1,,42,0,-3.71,40.42,,\n"

	t.Run("without store", func(t *testing.T) {
		svc, _ := newTestService(t, clock)
		_, err := svc.ImportOpenCellID(context.Background(), strings.NewReader(input))
		assert.ErrorIs(t, err, ErrNoCellStore)

		_, _, err = svc.CellTowers(context.Background(), 0)
		assert.ErrorIs(t, err, ErrNoCellStore)
	})

	t.Run("with store", func(t *testing.T) {
		cells := &memCellStore{}
		svc, _ := newTestService(t, clock, WithCellStore(cells))

		summary, err := svc.ImportOpenCellID(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Imported: 1, Skipped: 1, Added: 1}, summary)

		towers, total, err := svc.CellTowers(context.Background(), 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, towers, 1)
		assert.Equal(t, int64(12345678), towers[0].CID)
	})
}
