// internal/storage/csv_store_test.go
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/restockd/restockd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_items.csv")
	store := NewOrderItemStore(path)

	// Missing file reads as empty.
	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	first := []domain.OrderItem{
		{OrderID: "o1", PurchaseDate: time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC), SKU: "A-100", Quantity: 2},
		{OrderID: "o1", PurchaseDate: time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC), SKU: "B-200", Quantity: 1},
	}
	require.NoError(t, store.Append(first))

	second := []domain.OrderItem{
		{OrderID: "o2", PurchaseDate: time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), SKU: "A-100", Quantity: 4},
	}
	require.NoError(t, store.Append(second))

	items, err = store.Load()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "o1", items[0].OrderID)
	assert.Equal(t, "A-100", items[2].SKU)
	assert.Equal(t, 4, items[2].Quantity)
	assert.Equal(t, time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), items[2].PurchaseDate)
}

func TestOrderItemStoreKnownOrderIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_items.csv")
	store := NewOrderItemStore(path)

	require.NoError(t, store.Append([]domain.OrderItem{
		{OrderID: "o1", PurchaseDate: time.Now().UTC(), SKU: "A-100", Quantity: 1},
		{OrderID: "o1", PurchaseDate: time.Now().UTC(), SKU: "B-200", Quantity: 1},
		{OrderID: "o2", PurchaseDate: time.Now().UTC(), SKU: "A-100", Quantity: 1},
	}))

	ids, err := store.KnownOrderIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "o1")
	assert.Contains(t, ids, "o2")
}

func TestOrderItemStoreAppendNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_items.csv")
	store := NewOrderItemStore(path)

	require.NoError(t, store.Append(nil))

	// No file should be created for an empty append.
	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInventoryLevelStoreRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory_levels.csv")
	store := NewInventoryLevelStore(path)

	require.NoError(t, store.Write([]domain.InventoryLevel{
		{SKU: "A-100", Quantity: 7},
		{SKU: "B-200", Quantity: 0},
	}))

	// A second write replaces the snapshot entirely.
	require.NoError(t, store.Write([]domain.InventoryLevel{
		{SKU: "A-100", Quantity: 5},
	}))

	levels, err := store.Load()
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "A-100", levels[0].SKU)
	assert.Equal(t, 5, levels[0].Quantity)
}
