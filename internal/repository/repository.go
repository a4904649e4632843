// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/restockd/restockd/internal/domain"
)

// OrderItemRepository persists raw order line items pulled from the
// marketplace.
type OrderItemRepository interface {
	InsertBatch(ctx context.Context, items []domain.OrderItem) error
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.OrderItem, error)
	KnownOrderIDs(ctx context.Context) (map[string]struct{}, error)
}

// InventoryRepository persists the latest inventory snapshot.
type InventoryRepository interface {
	ReplaceAll(ctx context.Context, levels []domain.InventoryLevel) error
	ListAll(ctx context.Context) ([]domain.InventoryLevel, error)
}

// ReportRepository persists generated replenishment reports.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.ReplenishmentReport) error
	Latest(ctx context.Context) (*domain.ReplenishmentReport, error)
}
