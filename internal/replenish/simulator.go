// internal/replenish/simulator.go
package replenish

import (
	"fmt"
	"time"

	"github.com/restockd/restockd/internal/forecast"
)

// MissingInventoryLevelError reports a SKU that has a forecast column but no
// known on-hand quantity. Guessing a level (e.g. zero) would mask a
// data-integrity problem upstream, so the whole simulator call fails instead
// of skipping the SKU.
type MissingInventoryLevelError struct {
	SKU string
}

func (e *MissingInventoryLevelError) Error() string {
	return fmt.Sprintf("no inventory level for sku %s", e.SKU)
}

// DateOutOfHorizonError reports a replenishment target date that the current
// forecast does not cover.
type DateOutOfHorizonError struct {
	Until   time.Time
	Horizon time.Time
}

func (e *DateOutOfHorizonError) Error() string {
	return fmt.Sprintf("target date %s is beyond the forecast horizon ending %s",
		e.Until.Format("2006-01-02"), e.Horizon.Format("2006-01-02"))
}

// PredictOutOfStock walks the forecast forward per SKU, subtracting each
// day's predicted sales from the starting inventory level, and records the
// first date the running level goes strictly negative. A level of exactly
// zero still counts as in stock. SKUs whose level never goes negative within
// the horizon get no entry.
//
// Every SKU in future must have an inventory level; a missing one fails the
// whole call with *MissingInventoryLevelError.
func PredictOutOfStock(future *forecast.SalesMatrix, inventory map[string]int) (map[string]time.Time, error) {
	if err := checkInventory(future, inventory); err != nil {
		return nil, err
	}

	out := make(map[string]time.Time)
	for _, sku := range future.SKUs() {
		level := float64(inventory[sku])
		for day := 0; day < future.Days(); day++ {
			level -= future.At(day, sku)
			if level < 0 {
				out[sku] = future.DateAt(day)
				break
			}
		}
	}
	return out, nil
}

// ProposeReplenishment walks the forecast forward per SKU until the first
// date on or after until and, if the simulated level at that point is
// negative, records the shortfall as the quantity to add today. SKUs whose
// level is still non-negative need no replenishment and get no entry.
//
// until must be covered by the forecast; a date past the last forecast row
// fails with *DateOutOfHorizonError.
func ProposeReplenishment(future *forecast.SalesMatrix, inventory map[string]int, until time.Time) (map[string]float64, error) {
	if err := checkInventory(future, inventory); err != nil {
		return nil, err
	}

	until = until.UTC().Truncate(24 * time.Hour)
	if future.Days() == 0 || until.After(future.End()) {
		horizon := future.Start()
		if future.Days() > 0 {
			horizon = future.End()
		}
		return nil, &DateOutOfHorizonError{Until: until, Horizon: horizon}
	}

	out := make(map[string]float64)
	for _, sku := range future.SKUs() {
		level := float64(inventory[sku])
		for day := 0; day < future.Days(); day++ {
			level -= future.At(day, sku)
			if !future.DateAt(day).Before(until) {
				if level < 0 {
					out[sku] = -level
				}
				break
			}
		}
	}
	return out, nil
}

func checkInventory(future *forecast.SalesMatrix, inventory map[string]int) error {
	for _, sku := range future.SKUs() {
		if _, ok := inventory[sku]; !ok {
			return &MissingInventoryLevelError{SKU: sku}
		}
	}
	return nil
}
