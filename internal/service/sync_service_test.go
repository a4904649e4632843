// internal/service/sync_service_test.go
package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/restockd/restockd/internal/marketplace"
	"github.com/restockd/restockd/internal/storage"
)

type MockMarketplaceAPI struct {
	mock.Mock
}

func (m *MockMarketplaceAPI) GetOrders(ctx context.Context, createdAfter time.Time) ([]marketplace.Order, error) {
	args := m.Called(ctx, createdAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.Order), args.Error(1)
}

func (m *MockMarketplaceAPI) GetOrderItems(ctx context.Context, orderID string) ([]marketplace.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.OrderItem), args.Error(1)
}

func (m *MockMarketplaceAPI) GetInventorySummaries(ctx context.Context) ([]marketplace.InventorySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.InventorySummary), args.Error(1)
}

func newTestSyncService(t *testing.T, client MarketplaceAPI) (*SyncService, *storage.OrderItemStore, *storage.InventoryLevelStore) {
	t.Helper()
	dir := t.TempDir()
	itemsCSV := storage.NewOrderItemStore(filepath.Join(dir, "order_items.csv"))
	levelsCSV := storage.NewInventoryLevelStore(filepath.Join(dir, "inventory_levels.csv"))
	return NewSyncService(client, nil, nil, itemsCSV, levelsCSV), itemsCSV, levelsCSV
}

func TestSyncOrdersSkipsKnownOrders(t *testing.T) {
	client := new(MockMarketplaceAPI)
	client.On("GetOrders", mock.Anything, mock.Anything).Return([]marketplace.Order{
		{OrderID: "o1", PurchaseDate: "2026-02-10T09:30:00Z"},
		{OrderID: "o2", PurchaseDate: "2026-02-11T12:00:00Z"},
	}, nil).Twice()
	client.On("GetOrderItems", mock.Anything, "o1").Return([]marketplace.OrderItem{
		{SKU: "A-100", QuantityOrdered: 2},
	}, nil).Once()
	client.On("GetOrderItems", mock.Anything, "o2").Return([]marketplace.OrderItem{
		{SKU: "A-100", QuantityOrdered: 1},
		{SKU: "B-200", QuantityOrdered: 3},
	}, nil).Once()

	svc, itemsCSV, _ := newTestSyncService(t, client)

	count, err := svc.SyncOrders(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// A second sync sees the same orders and fetches nothing new.
	count, err = svc.SyncOrders(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	items, err := itemsCSV.Load()
	require.NoError(t, err)
	assert.Len(t, items, 3)
	client.AssertExpectations(t)
}

func TestSyncInventoryRewritesSnapshot(t *testing.T) {
	client := new(MockMarketplaceAPI)
	client.On("GetInventorySummaries", mock.Anything).Return([]marketplace.InventorySummary{
		{SKU: "A-100", TotalQuantity: 12},
		{SKU: "B-200", TotalQuantity: 0},
	}, nil).Once()
	client.On("GetInventorySummaries", mock.Anything).Return([]marketplace.InventorySummary{
		{SKU: "A-100", TotalQuantity: 9},
	}, nil).Once()

	svc, _, levelsCSV := newTestSyncService(t, client)

	count, err := svc.SyncInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.SyncInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	levels, err := levelsCSV.Load()
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 9, levels[0].Quantity)
	client.AssertExpectations(t)
}
