// internal/forecast/aggregator.go
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/restockd/restockd/internal/domain"
)

// ErrInvalidRange is returned when an aggregation window ends on or before
// its start date.
var ErrInvalidRange = errors.New("aggregation window end must be after start")

// Aggregate pivots a flat sequence of order items into a dense per-day,
// per-SKU sales matrix spanning [start, end). Items outside the window are
// historical noise and dropped silently. Quantities for the same (date, SKU)
// pair are summed. Every day in the window is present, every SKU column is
// present on every day, and missing combinations are zero.
func Aggregate(items []domain.OrderItem, start, end time.Time) (*SalesMatrix, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: start=%s end=%s",
			ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	days := int(end.Sub(start).Hours() / 24)

	// Collect the distinct SKUs inside the window first so the matrix can be
	// allocated with its final column set.
	seen := make(map[string]struct{})
	for _, item := range items {
		date := truncateToDay(item.PurchaseDate)
		if date.Before(start) || !date.Before(end) {
			continue
		}
		seen[item.SKU] = struct{}{}
	}

	skus := make([]string, 0, len(seen))
	for sku := range seen {
		skus = append(skus, sku)
	}

	m := NewSalesMatrix(start, skus, days)
	for _, item := range items {
		date := truncateToDay(item.PurchaseDate)
		if date.Before(start) || !date.Before(end) {
			continue
		}
		day := int(date.Sub(start).Hours() / 24)
		m.add(day, item.SKU, float64(item.Quantity))
	}

	return m, nil
}
