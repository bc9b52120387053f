package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lcalzada-xor/wguard/internal/adapters/importer"
	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
	"github.com/lcalzada-xor/wguard/internal/core/services/change"
	"github.com/lcalzada-xor/wguard/internal/core/services/threat"
	"github.com/lcalzada-xor/wguard/internal/geo"
	"github.com/lcalzada-xor/wguard/internal/telemetry"
)

// ErrNoCellStore is returned by cell tower operations when no tower store is configured.
var ErrNoCellStore = errors.New("cell tower store not configured")

const tracerName = "session-service"

// Service runs scan cycles against one scan store.
// Every store access goes through mu, so a Service is the single writer for its store.
type Service struct {
	id        string
	startedAt time.Time

	store    ports.ScanStore
	cells    ports.CellTowerStore
	threats  *threat.Analyzer
	changes  *change.Analyzer
	clock    ports.Clock
	location geo.Provider

	mu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithCellStore enables OpenCellID imports.
func WithCellStore(cells ports.CellTowerStore) Option {
	return func(s *Service) { s.cells = cells }
}

// WithClock replaces the wall clock.
func WithClock(clock ports.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLocation attaches a position to observations that arrive without a GPS fix.
func WithLocation(p geo.Provider) Option {
	return func(s *Service) { s.location = p }
}

// NewService creates a session over store with the given analyzers.
func NewService(store ports.ScanStore, threats *threat.Analyzer, changes *change.Analyzer, opts ...Option) *Service {
	s := &Service{
		id:      uuid.NewString(),
		store:   store,
		threats: threats,
		changes: changes,
		clock:   ports.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.clock.Now()
	return s
}

// ID returns the session identifier.
func (s *Service) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Service) StartedAt() time.Time {
	return s.startedAt
}

// CycleResult is the outcome of one scan cycle.
type CycleResult struct {
	Record      domain.ScanRecord
	NewNetworks int
	Changes     *domain.AnalysisResult
}

// RunCycle tags raw against the stored history, persists the tagged record and,
// when withChanges is set, re-reads the full history for change analysis.
// seen may be nil when the caller does not track the session.
func (s *Service) RunCycle(ctx context.Context, raw []domain.NetworkObservation, root domain.RootScanData, seen *SeenNetworks, withChanges bool) (CycleResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "RunCycle")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.Int("scan.networks", len(raw)),
		attribute.Bool("scan.root_active", root.RootActive),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	observations := s.locate(raw)
	tagged := s.threats.AnalyzeAt(now, observations, s.store.LoadHistory(), root)
	record := domain.NewScanRecord(now, tagged)

	if err := s.store.AppendRecord(record); err != nil {
		span.RecordError(err)
		return CycleResult{}, fmt.Errorf("persist scan: %w", err)
	}
	recordThreatMetrics(tagged)

	result := CycleResult{Record: record}
	if seen != nil {
		result.NewNetworks = seen.Merge(tagged)
	}
	if withChanges {
		changes := s.changes.Analyze(s.store.LoadHistory())
		recordChangeMetrics(changes)
		result.Changes = &changes
	}

	slog.Debug("Scan cycle complete",
		"session", s.id,
		"networks", len(tagged),
		"flagged", record.FlaggedCount(),
		"new", result.NewNetworks,
	)
	return result, nil
}

// Changes runs the change analyzer over the stored history.
func (s *Service) Changes(ctx context.Context) domain.AnalysisResult {
	_, span := otel.Tracer(tracerName).Start(ctx, "Changes")
	defer span.End()

	s.mu.Lock()
	history := s.store.LoadHistory()
	s.mu.Unlock()

	result := s.changes.Analyze(history)
	recordChangeMetrics(result)
	span.SetAttributes(
		attribute.Int("history.records", len(history)),
		attribute.Int("changes.count", result.ChangeCount),
	)
	return result
}

// History returns the stored records, newest first.
func (s *Service) History() []domain.ScanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadHistory()
}

// ClearHistory drops every stored record.
func (s *Service) ClearHistory(ctx context.Context) error {
	_, span := otel.Tracer(tracerName).Start(ctx, "ClearHistory")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearHistory()
}

// ImportSummary reports the outcome of one import.
type ImportSummary struct {
	Imported int // rows parsed
	Skipped  int // rows rejected by the parser
	Added    int // entries that were new to the store
}

// ImportWigle parses a WiGLE export and merges it into the history by day.
func (s *Service) ImportWigle(ctx context.Context, r io.Reader) (ImportSummary, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "ImportWigle")
	defer span.End()

	res := importer.ParseWigle(r)
	recordImportMetrics("wigle", res.Imported, res.Skipped)
	summary := ImportSummary{Imported: res.Imported, Skipped: res.Skipped}

	s.mu.Lock()
	added, err := s.store.ImportExternalRecords(res.Records)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return summary, fmt.Errorf("import wigle records: %w", err)
	}
	summary.Added = added

	span.SetAttributes(
		attribute.Int("import.rows", res.Imported),
		attribute.Int("import.skipped", res.Skipped),
		attribute.Int("import.added", added),
	)
	slog.Info("WiGLE import complete", "imported", res.Imported, "skipped", res.Skipped, "added", added)
	return summary, nil
}

// ImportOpenCellID parses an OpenCellID export and upserts the towers.
func (s *Service) ImportOpenCellID(ctx context.Context, r io.Reader) (ImportSummary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ImportOpenCellID")
	defer span.End()

	if s.cells == nil {
		return ImportSummary{}, ErrNoCellStore
	}

	res := importer.ParseOpenCellID(r)
	recordImportMetrics("opencellid", res.Imported, res.Skipped)
	summary := ImportSummary{Imported: res.Imported, Skipped: res.Skipped}

	added, err := s.cells.SaveCellTowers(ctx, res.Towers)
	if err != nil {
		span.RecordError(err)
		return summary, fmt.Errorf("import cell towers: %w", err)
	}
	summary.Added = added

	slog.Info("OpenCellID import complete", "imported", res.Imported, "skipped", res.Skipped, "saved", added)
	return summary, nil
}

// CellTowers lists stored towers, most recently updated first.
func (s *Service) CellTowers(ctx context.Context, limit int) ([]domain.CellTowerRecord, int64, error) {
	if s.cells == nil {
		return nil, 0, ErrNoCellStore
	}
	towers, err := s.cells.ListCellTowers(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.cells.CountCellTowers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return towers, total, nil
}

// locate copies raw and stamps the provider position on entries without a fix.
func (s *Service) locate(raw []domain.NetworkObservation) []domain.NetworkObservation {
	out := make([]domain.NetworkObservation, len(raw))
	copy(out, raw)
	if s.location == nil {
		return out
	}
	loc, ok := s.location.GetLocation()
	if !ok {
		return out
	}
	for i := range out {
		if out[i].GPS == nil {
			out[i].GPS = &domain.GPSFix{Latitude: loc.Latitude, Longitude: loc.Longitude}
		}
	}
	return out
}

func recordThreatMetrics(tagged []domain.NetworkObservation) {
	telemetry.ScansAnalyzed.Inc()
	telemetry.NetworksObserved.Add(float64(len(tagged)))
	for _, n := range tagged {
		for _, t := range n.Threats.Types() {
			telemetry.ThreatsTagged.WithLabelValues(t.String()).Inc()
		}
	}
}

func recordChangeMetrics(result domain.AnalysisResult) {
	for _, c := range result.Changes {
		telemetry.ChangesDetected.WithLabelValues(c.Type.String(), string(c.Severity)).Inc()
	}
}

func recordImportMetrics(source string, imported, skipped int) {
	telemetry.ImportRows.WithLabelValues(source, "imported").Add(float64(imported))
	telemetry.ImportRows.WithLabelValues(source, "skipped").Add(float64(skipped))
}
