// internal/repository/postgres/order_item_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/repository"
)

type OrderItemRepository struct {
	db *DB
}

func NewOrderItemRepository(db *DB) *OrderItemRepository {
	return &OrderItemRepository{db: db}
}

var _ repository.OrderItemRepository = (*OrderItemRepository)(nil)

// InsertBatch inserts order items in a single transaction. Re-inserting the
// same (order, sku) line is a no-op so a re-run of a sync cannot double-count
// sales.
func (r *OrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_items (order_id, purchase_date, sku, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_id, sku) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("prepare order item insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			if _, err := stmt.ExecContext(ctx,
				item.OrderID, item.PurchaseDate.UTC(), item.SKU, item.Quantity); err != nil {
				return fmt.Errorf("insert order item %s/%s: %w", item.OrderID, item.SKU, err)
			}
		}
		return nil
	})
}

// ListBetween returns all order items with start <= purchase_date < end.
func (r *OrderItemRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT order_id, purchase_date, sku, quantity
		FROM order_items
		WHERE purchase_date >= $1 AND purchase_date < $2
		ORDER BY purchase_date, order_id, sku`,
		start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

// KnownOrderIDs returns the ids of all orders already persisted.
func (r *OrderItemRepository) KnownOrderIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT order_id FROM order_items`); err != nil {
		return nil, fmt.Errorf("list known order ids: %w", err)
	}

	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}
