package ports

import (
	"context"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// ScanStore persists the bounded scan history.
// Implementations do no internal locking: callers serialize every mutating call.
type ScanStore interface {
	// LoadHistory returns records newest first. A missing or corrupt store yields an empty slice.
	LoadHistory() []domain.ScanRecord

	// AppendRecord prepends record and evicts the oldest records beyond capacity.
	AppendRecord(record domain.ScanRecord) error

	// ClearHistory removes every stored record.
	ClearHistory() error

	// ImportExternalRecords merges imported records by UTC day and returns how many networks were added.
	ImportExternalRecords(records []domain.ScanRecord) (int, error)
}

// CellTowerStore persists imported cell tower rows.
type CellTowerStore interface {
	SaveCellTowers(ctx context.Context, towers []domain.CellTowerRecord) (int, error)
	ListCellTowers(ctx context.Context, limit int) ([]domain.CellTowerRecord, error)
	CountCellTowers(ctx context.Context) (int64, error)
}

// PinnedStore persists user pinned BSSIDs.
type PinnedStore interface {
	PinNetwork(ctx context.Context, pin domain.PinnedNetwork) (domain.PinnedNetwork, error)
	UnpinNetwork(ctx context.Context, bssid string) error
	ListPinned(ctx context.Context) ([]domain.PinnedNetwork, error)
	IsPinned(ctx context.Context, bssid string) (bool, error)
}
