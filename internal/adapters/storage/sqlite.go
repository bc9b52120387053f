package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
)

var (
	// ErrInvalidBSSID is returned when a pin targets a malformed BSSID.
	ErrInvalidBSSID = errors.New("invalid BSSID")
	// ErrNotPinned is returned when unpinning a BSSID that is not pinned.
	ErrNotPinned = errors.New("network is not pinned")
)

// SQLiteStore implements the cell tower and pinned network stores using GORM and SQLite.
type SQLiteStore struct {
	db *gorm.DB
}

// CellTowerModel is the GORM model for imported cell towers.
type CellTowerModel struct {
	ID        uint    `gorm:"primaryKey"`
	Radio     string  `gorm:"column:radio;uniqueIndex:idx_cell_key"`
	MCC       int     `gorm:"column:mcc;uniqueIndex:idx_cell_key"`
	MNC       int     `gorm:"column:mnc;uniqueIndex:idx_cell_key"`
	LAC       int     `gorm:"column:lac;uniqueIndex:idx_cell_key"`
	CID       int64   `gorm:"column:cid;uniqueIndex:idx_cell_key"`
	Longitude float64 `gorm:"column:longitude"`
	Latitude  float64 `gorm:"column:latitude"`
	Range     int     `gorm:"column:range_m"`
	Samples   int     `gorm:"column:samples"`
	UpdatedAt time.Time
}

// PinnedModel is the GORM model for pinned networks.
type PinnedModel struct {
	ID       string    `gorm:"primaryKey"`
	BSSID    string    `gorm:"column:bssid;uniqueIndex"`
	SSID     string    `gorm:"column:ssid"`
	Note     string    `gorm:"column:note"`
	PinnedAt time.Time `gorm:"column:pinned_at;index"`
}

// NewSQLiteStore opens (or creates) the database and migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return newSQLiteStore(db)
}

func newSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps ":memory:" databases shared.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&CellTowerModel{}, &PinnedModel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveCellTowers upserts towers keyed by radio/mcc/mnc/lac/cid and returns how many were written.
func (s *SQLiteStore) SaveCellTowers(ctx context.Context, towers []domain.CellTowerRecord) (int, error) {
	if len(towers) == 0 {
		return 0, nil
	}

	// Within one batch the last row for a key wins.
	index := make(map[string]int, len(towers))
	models := make([]CellTowerModel, 0, len(towers))
	for _, t := range towers {
		m := toCellTowerModel(t)
		if i, ok := index[t.Key()]; ok {
			models[i] = m
			continue
		}
		index[t.Key()] = len(models)
		models = append(models, m)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "radio"}, {Name: "mcc"}, {Name: "mnc"}, {Name: "lac"}, {Name: "cid"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"longitude", "latitude", "range_m", "samples", "updated_at"}),
		}).CreateInBatches(models, 100).Error
	})
	if err != nil {
		return 0, fmt.Errorf("save cell towers: %w", err)
	}
	return len(models), nil
}

// ListCellTowers returns up to limit towers, most recently updated first. limit <= 0 returns all.
func (s *SQLiteStore) ListCellTowers(ctx context.Context, limit int) ([]domain.CellTowerRecord, error) {
	query := s.db.WithContext(ctx).Order("updated_at DESC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []CellTowerModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list cell towers: %w", err)
	}

	towers := make([]domain.CellTowerRecord, len(models))
	for i, m := range models {
		towers[i] = toCellTowerDomain(m)
	}
	return towers, nil
}

// CountCellTowers returns the number of stored towers.
func (s *SQLiteStore) CountCellTowers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&CellTowerModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count cell towers: %w", err)
	}
	return count, nil
}

// PinNetwork stores a pin, or updates the SSID and note of an existing one.
func (s *SQLiteStore) PinNetwork(ctx context.Context, pin domain.PinnedNetwork) (domain.PinnedNetwork, error) {
	bssid := domain.NormalizeBSSID(pin.BSSID)
	if !domain.IsValidBSSID(bssid) {
		return domain.PinnedNetwork{}, fmt.Errorf("%w: %q", ErrInvalidBSSID, pin.BSSID)
	}
	pin.BSSID = bssid
	pin.SSID = strings.TrimSpace(pin.SSID)

	var existing PinnedModel
	err := s.db.WithContext(ctx).Where("bssid = ?", bssid).First(&existing).Error
	switch {
	case err == nil:
		existing.SSID = pin.SSID
		existing.Note = pin.Note
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return domain.PinnedNetwork{}, fmt.Errorf("update pin: %w", err)
		}
		return toPinnedDomain(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return domain.PinnedNetwork{}, fmt.Errorf("lookup pin: %w", err)
	}

	if pin.ID == "" {
		pin.ID = uuid.NewString()
	}
	if pin.PinnedAt.IsZero() {
		pin.PinnedAt = time.Now().UTC()
	}
	model := toPinnedModel(pin)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.PinnedNetwork{}, fmt.Errorf("create pin: %w", err)
	}
	return toPinnedDomain(model), nil
}

// UnpinNetwork removes the pin for bssid.
func (s *SQLiteStore) UnpinNetwork(ctx context.Context, bssid string) error {
	res := s.db.WithContext(ctx).Where("bssid = ?", domain.NormalizeBSSID(bssid)).Delete(&PinnedModel{})
	if res.Error != nil {
		return fmt.Errorf("delete pin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPinned
	}
	return nil
}

// ListPinned returns every pin, newest first.
func (s *SQLiteStore) ListPinned(ctx context.Context) ([]domain.PinnedNetwork, error) {
	var models []PinnedModel
	if err := s.db.WithContext(ctx).Order("pinned_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	pins := make([]domain.PinnedNetwork, len(models))
	for i, m := range models {
		pins[i] = toPinnedDomain(m)
	}
	return pins, nil
}

// IsPinned reports whether bssid is pinned.
func (s *SQLiteStore) IsPinned(ctx context.Context, bssid string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&PinnedModel{}).
		Where("bssid = ?", domain.NormalizeBSSID(bssid)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check pin: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure interface compliance
var (
	_ ports.CellTowerStore = (*SQLiteStore)(nil)
	_ ports.PinnedStore    = (*SQLiteStore)(nil)
)
