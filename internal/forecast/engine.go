// internal/forecast/engine.go
package forecast

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidHorizon is returned for a non-positive forecast horizon.
var ErrInvalidHorizon = errors.New("forecast horizon must be positive")

const defaultWorkers = 4

// Engine turns a past sales matrix into a future sales matrix by applying a
// Strategy to each SKU column independently. Columns are embarrassingly
// parallel, so they are forecast on a small worker pool; each worker writes
// only its own pre-assigned column, which keeps the output deterministic
// regardless of completion order.
type Engine struct {
	strategy Strategy
	workers  int
}

// NewEngine creates an engine using the given strategy. A nil strategy
// defaults to NaiveMean.
func NewEngine(strategy Strategy) *Engine {
	if strategy == nil {
		strategy = NaiveMean{}
	}
	return &Engine{
		strategy: strategy,
		workers:  defaultWorkers,
	}
}

// WithWorkers sets the number of concurrent column forecasts.
func (e *Engine) WithWorkers(n int) *Engine {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Forecast produces a dense future sales matrix spanning
// [today, today+daysInFuture) with the same column set and order as past.
// SKUs without a history column are not forecast; callers that want a flat
// zero forecast for such SKUs must add a zero-filled column to past first.
func (e *Engine) Forecast(past *SalesMatrix, today time.Time, daysInFuture int) (*SalesMatrix, error) {
	if daysInFuture <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, daysInFuture)
	}

	skus := past.SKUs()
	future := NewSalesMatrix(today, skus, daysInFuture)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for col, sku := range skus {
		col, sku := col, sku
		g.Go(func() error {
			series := e.strategy.Predict(past.Column(sku), daysInFuture)
			if len(series) != daysInFuture {
				return fmt.Errorf("strategy returned %d values for sku %s, want %d",
					len(series), sku, daysInFuture)
			}
			future.setColumn(col, series)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return future, nil
}
