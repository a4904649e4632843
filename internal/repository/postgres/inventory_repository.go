// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/repository"
)

type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

// ReplaceAll swaps the inventory snapshot for the given levels. Only the
// latest snapshot is kept; levels are point-in-time data with no history.
func (r *InventoryRepository) ReplaceAll(ctx context.Context, levels []domain.InventoryLevel) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `TRUNCATE inventory_levels`); err != nil {
			return fmt.Errorf("clear inventory levels: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO inventory_levels (sku, quantity, updated_at)
			VALUES ($1, $2, NOW())`)
		if err != nil {
			return fmt.Errorf("prepare inventory insert: %w", err)
		}
		defer stmt.Close()

		for _, level := range levels {
			if _, err := stmt.ExecContext(ctx, level.SKU, level.Quantity); err != nil {
				return fmt.Errorf("insert inventory level %s: %w", level.SKU, err)
			}
		}
		return nil
	})
}

// ListAll returns the current snapshot.
func (r *InventoryRepository) ListAll(ctx context.Context) ([]domain.InventoryLevel, error) {
	var levels []domain.InventoryLevel
	err := r.db.SelectContext(ctx, &levels,
		`SELECT sku, quantity FROM inventory_levels ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	return levels, nil
}
