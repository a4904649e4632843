// internal/storage/csv_repository.go
package storage

import (
	"context"
	"time"

	"github.com/restockd/restockd/internal/domain"
)

// CSVOrderItemRepository adapts the CSV order item archive to the repository
// interface, so report generation can run without a database.
type CSVOrderItemRepository struct {
	store *OrderItemStore
}

func NewCSVOrderItemRepository(store *OrderItemStore) *CSVOrderItemRepository {
	return &CSVOrderItemRepository{store: store}
}

func (r *CSVOrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	return r.store.Append(items)
}

func (r *CSVOrderItemRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.OrderItem, error) {
	items, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	var filtered []domain.OrderItem
	for _, item := range items {
		if item.PurchaseDate.Before(start) || !item.PurchaseDate.Before(end) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (r *CSVOrderItemRepository) KnownOrderIDs(ctx context.Context) (map[string]struct{}, error) {
	return r.store.KnownOrderIDs()
}

// CSVInventoryRepository adapts the CSV inventory snapshot to the repository
// interface.
type CSVInventoryRepository struct {
	store *InventoryLevelStore
}

func NewCSVInventoryRepository(store *InventoryLevelStore) *CSVInventoryRepository {
	return &CSVInventoryRepository{store: store}
}

func (r *CSVInventoryRepository) ReplaceAll(ctx context.Context, levels []domain.InventoryLevel) error {
	return r.store.Write(levels)
}

func (r *CSVInventoryRepository) ListAll(ctx context.Context) ([]domain.InventoryLevel, error) {
	return r.store.Load()
}
