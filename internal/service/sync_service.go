// internal/service/sync_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/marketplace"
	"github.com/restockd/restockd/internal/repository"
	"github.com/restockd/restockd/internal/storage"
)

// MarketplaceAPI is the slice of the marketplace client the sync needs.
type MarketplaceAPI interface {
	GetOrders(ctx context.Context, createdAfter time.Time) ([]marketplace.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]marketplace.OrderItem, error)
	GetInventorySummaries(ctx context.Context) ([]marketplace.InventorySummary, error)
}

// SyncService pulls recent orders and the current inventory snapshot from the
// marketplace and persists them to the CSV archive and the database. Orders
// already present are skipped, so a sync can be re-run without duplicating
// line items.
type SyncService struct {
	client    MarketplaceAPI
	orders    repository.OrderItemRepository
	inventory repository.InventoryRepository
	itemsCSV  *storage.OrderItemStore
	levelsCSV *storage.InventoryLevelStore
}

func NewSyncService(
	client MarketplaceAPI,
	orders repository.OrderItemRepository,
	inventory repository.InventoryRepository,
	itemsCSV *storage.OrderItemStore,
	levelsCSV *storage.InventoryLevelStore,
) *SyncService {
	return &SyncService{
		client:    client,
		orders:    orders,
		inventory: inventory,
		itemsCSV:  itemsCSV,
		levelsCSV: levelsCSV,
	}
}

// SyncOrders fetches orders created in the last daysBack days, pulls line
// items for the ones not yet seen and appends them to both stores.
func (s *SyncService) SyncOrders(ctx context.Context, daysBack int) (int, error) {
	createdAfter := time.Now().UTC().AddDate(0, 0, -daysBack)

	orders, err := s.client.GetOrders(ctx, createdAfter)
	if err != nil {
		return 0, fmt.Errorf("fetch orders: %w", err)
	}

	known, err := s.knownOrderIDs(ctx)
	if err != nil {
		return 0, err
	}

	var items []domain.OrderItem
	fetched := 0
	for _, order := range orders {
		if _, ok := known[order.OrderID]; ok {
			continue
		}

		purchaseDate, err := time.Parse(time.RFC3339, order.PurchaseDate)
		if err != nil {
			return 0, fmt.Errorf("parse purchase date %q of order %s: %w",
				order.PurchaseDate, order.OrderID, err)
		}

		lines, err := s.client.GetOrderItems(ctx, order.OrderID)
		if err != nil {
			return 0, fmt.Errorf("fetch items of order %s: %w", order.OrderID, err)
		}
		fetched++

		for _, line := range lines {
			items = append(items, domain.OrderItem{
				OrderID:      order.OrderID,
				PurchaseDate: purchaseDate,
				SKU:          line.SKU,
				Quantity:     line.QuantityOrdered,
			})
		}
	}

	if len(items) > 0 {
		if err := s.itemsCSV.Append(items); err != nil {
			return 0, fmt.Errorf("append order items csv: %w", err)
		}
		if s.orders != nil {
			if err := s.orders.InsertBatch(ctx, items); err != nil {
				return 0, fmt.Errorf("persist order items: %w", err)
			}
		}
	}

	log.Info().
		Int("orders_fetched", fetched).
		Int("orders_skipped", len(orders)-fetched).
		Int("line_items", len(items)).
		Msg("order sync complete")

	return len(items), nil
}

// SyncInventory replaces the inventory snapshot in both stores with the
// marketplace's current levels.
func (s *SyncService) SyncInventory(ctx context.Context) (int, error) {
	summaries, err := s.client.GetInventorySummaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch inventory summaries: %w", err)
	}

	levels := make([]domain.InventoryLevel, 0, len(summaries))
	for _, summary := range summaries {
		levels = append(levels, domain.InventoryLevel{
			SKU:      summary.SKU,
			Quantity: summary.TotalQuantity,
		})
	}

	if err := s.levelsCSV.Write(levels); err != nil {
		return 0, fmt.Errorf("write inventory levels csv: %w", err)
	}
	if s.inventory != nil {
		if err := s.inventory.ReplaceAll(ctx, levels); err != nil {
			return 0, fmt.Errorf("persist inventory levels: %w", err)
		}
	}

	log.Info().Int("levels", len(levels)).Msg("inventory sync complete")
	return len(levels), nil
}

// knownOrderIDs merges ids already present in the database and the CSV
// archive; either source alone may be behind the other.
func (s *SyncService) knownOrderIDs(ctx context.Context) (map[string]struct{}, error) {
	known := make(map[string]struct{})

	if s.orders != nil {
		fromDB, err := s.orders.KnownOrderIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load known order ids: %w", err)
		}
		for id := range fromDB {
			known[id] = struct{}{}
		}
	}

	fromCSV, err := s.itemsCSV.KnownOrderIDs()
	if err != nil {
		return nil, fmt.Errorf("load known order ids from csv: %w", err)
	}
	for id := range fromCSV {
		known[id] = struct{}{}
	}

	return known, nil
}
