// internal/domain/models.go
package domain

import "time"

// OrderItem is a single historical order line item. Multiple items may share
// the same purchase date and SKU (split shipments) and are summed during
// aggregation, never overwritten.
type OrderItem struct {
	OrderID      string    `json:"order_id" db:"order_id"`
	PurchaseDate time.Time `json:"purchase_date" db:"purchase_date"`
	SKU          string    `json:"sku" db:"sku"`
	Quantity     int       `json:"quantity" db:"quantity"`
}

// InventoryLevel is the current on-hand quantity for a single SKU.
type InventoryLevel struct {
	SKU      string `json:"sku" db:"sku"`
	Quantity int    `json:"quantity" db:"quantity"`
}

// OutOfStockEntry is the predicted stockout for one SKU.
type OutOfStockEntry struct {
	SKU      string    `json:"sku"`
	Date     time.Time `json:"date"`
	DaysLeft int       `json:"days_left"`
}

// ReplenishmentEntry is the proposed replenishment quantity for one SKU,
// sized so that simulated inventory stays non-negative through the target date.
type ReplenishmentEntry struct {
	SKU      string  `json:"sku"`
	Quantity float64 `json:"quantity"`
}

// ReplenishmentReport is the assembled output of a full forecasting run.
type ReplenishmentReport struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	DaysBack      int                  `json:"days_back"`
	DaysInFuture  int                  `json:"days_in_future"`
	Until         time.Time            `json:"until"`
	OutOfStock    []OutOfStockEntry    `json:"out_of_stock"`
	Replenishment []ReplenishmentEntry `json:"replenishment"`
}
