// internal/service/report_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/forecast"
	"github.com/restockd/restockd/internal/replenish"
)

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.OrderItem, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) KnownOrderIDs(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) ReplaceAll(ctx context.Context, levels []domain.InventoryLevel) error {
	args := m.Called(ctx, levels)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListAll(ctx context.Context) ([]domain.InventoryLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryLevel), args.Error(1)
}

func fixedToday() time.Time {
	return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
}

func newTestReportService(orders *MockOrderItemRepository, inventory *MockInventoryRepository, cfg config.ForecastConfig) *ReportService {
	svc := NewReportService(orders, inventory, nil, nil, nil, cfg)
	svc.now = fixedToday
	return svc
}

func TestGenerateReport(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := config.ForecastConfig{DaysBack: 10, DaysInFuture: 30, Strategy: "naive_mean", Workers: 2}

	// A-100 sold 50 units over the 10-day lookback: mean 5/day against 12 on
	// hand stocks out on day 2 of the forecast.
	var items []domain.OrderItem
	for i := 0; i < 10; i++ {
		items = append(items, domain.OrderItem{
			OrderID:      "o1",
			PurchaseDate: today.AddDate(0, 0, -10+i),
			SKU:          "A-100",
			Quantity:     5,
		})
	}

	orders := new(MockOrderItemRepository)
	orders.On("ListBetween", mock.Anything, today.AddDate(0, 0, -10), today).Return(items, nil)

	inventory := new(MockInventoryRepository)
	inventory.On("ListAll", mock.Anything).Return([]domain.InventoryLevel{
		{SKU: "A-100", Quantity: 12},
	}, nil)

	svc := newTestReportService(orders, inventory, cfg)
	report, err := svc.Generate(context.Background(), today.AddDate(0, 0, 5))
	require.NoError(t, err)

	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, "A-100", report.OutOfStock[0].SKU)
	assert.Equal(t, today.AddDate(0, 0, 2), report.OutOfStock[0].Date)
	assert.Equal(t, 2, report.OutOfStock[0].DaysLeft)

	// Level at the target date: 12 - 6*5 = -18.
	require.Len(t, report.Replenishment, 1)
	assert.Equal(t, 18.0, report.Replenishment[0].Quantity)

	orders.AssertExpectations(t)
	inventory.AssertExpectations(t)
}

func TestGenerateReportMissingInventoryFails(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := config.ForecastConfig{DaysBack: 5, DaysInFuture: 10, Workers: 1}

	orders := new(MockOrderItemRepository)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.OrderItem{
		{OrderID: "o1", PurchaseDate: today.AddDate(0, 0, -2), SKU: "A-100", Quantity: 3},
	}, nil)

	inventory := new(MockInventoryRepository)
	inventory.On("ListAll", mock.Anything).Return([]domain.InventoryLevel{}, nil)

	svc := newTestReportService(orders, inventory, cfg)
	_, err := svc.Generate(context.Background(), today.AddDate(0, 0, 3))

	var missing *replenish.MissingInventoryLevelError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "A-100", missing.SKU)
}

func TestGenerateReportUnsoldSKUPolicy(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	orders := new(MockOrderItemRepository)
	orders.On("ListBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.OrderItem{}, nil)

	inventory := new(MockInventoryRepository)
	inventory.On("ListAll", mock.Anything).Return([]domain.InventoryLevel{
		{SKU: "A-100", Quantity: 4},
	}, nil)

	// Default policy: no sales history means the SKU is absent from every
	// prediction.
	svc := newTestReportService(orders, inventory, config.ForecastConfig{DaysBack: 5, DaysInFuture: 10, Workers: 1})
	report, err := svc.Generate(context.Background(), today.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Empty(t, report.OutOfStock)
	assert.Empty(t, report.Replenishment)

	// Opted in: the SKU gets a flat zero forecast and a predicted non-stockout.
	svc = newTestReportService(orders, inventory, config.ForecastConfig{
		DaysBack: 5, DaysInFuture: 10, Workers: 1, IncludeUnsoldSKUs: true,
	})
	report, err = svc.Generate(context.Background(), today.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Empty(t, report.OutOfStock)
	assert.Empty(t, report.Replenishment)
}

func TestStrategyFromName(t *testing.T) {
	assert.IsType(t, forecast.NaiveMean{}, StrategyFromName("naive_mean"))
	assert.IsType(t, forecast.NaiveMean{}, StrategyFromName(""))
	assert.IsType(t, forecast.LastValue{}, StrategyFromName("last_value"))
	assert.IsType(t, forecast.MovingAverage{}, StrategyFromName("moving_average"))
	assert.IsType(t, forecast.SeasonalNaive{}, StrategyFromName("seasonal_naive"))
}
