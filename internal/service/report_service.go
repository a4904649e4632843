// internal/service/report_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/restockd/restockd/internal/cache"
	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/forecast"
	"github.com/restockd/restockd/internal/replenish"
	"github.com/restockd/restockd/internal/repository"
	"github.com/restockd/restockd/internal/storage"
)

// ReportService runs the full forecasting pipeline: it loads the order
// history and inventory snapshot, aggregates sales, forecasts future demand
// and simulates depletion into a replenishment report.
type ReportService struct {
	orders    repository.OrderItemRepository
	inventory repository.InventoryRepository
	reports   repository.ReportRepository
	cache     cache.ReportCache
	archive   storage.ReportArchive
	engine    *forecast.Engine
	cfg       config.ForecastConfig
	now       func() time.Time
}

func NewReportService(
	orders repository.OrderItemRepository,
	inventory repository.InventoryRepository,
	reports repository.ReportRepository,
	cacheImpl cache.ReportCache,
	archive storage.ReportArchive,
	cfg config.ForecastConfig,
) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	if archive == nil {
		archive = storage.NoopArchive{}
	}

	return &ReportService{
		orders:    orders,
		inventory: inventory,
		reports:   reports,
		cache:     cacheImpl,
		archive:   archive,
		engine:    forecast.NewEngine(StrategyFromName(cfg.Strategy)).WithWorkers(cfg.Workers),
		cfg:       cfg,
		now:       time.Now,
	}
}

// StrategyFromName maps a configured strategy name to its implementation,
// defaulting to the naive mean.
func StrategyFromName(name string) forecast.Strategy {
	switch name {
	case "last_value":
		return forecast.LastValue{}
	case "moving_average":
		return forecast.MovingAverage{Window: 7}
	case "seasonal_naive":
		return forecast.SeasonalNaive{Period: 7}
	default:
		return forecast.NaiveMean{}
	}
}

// Generate builds a replenishment report for the given target date, serving
// a cached copy when one is fresh enough.
func (s *ReportService) Generate(ctx context.Context, until time.Time) (*domain.ReplenishmentReport, error) {
	if report, ok, err := s.cache.Get(ctx, until); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("report: cache get failed")
	}

	report, err := s.generate(ctx, until)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, report); err != nil {
		log.Warn().Err(err).Msg("report: cache set failed")
	}
	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			log.Warn().Err(err).Msg("report: persist failed")
		}
	}
	s.archiveReport(ctx, report)

	return report, nil
}

func (s *ReportService) generate(ctx context.Context, until time.Time) (*domain.ReplenishmentReport, error) {
	today := truncateToDay(s.now())
	start := today.AddDate(0, 0, -s.cfg.DaysBack)

	items, err := s.orders.ListBetween(ctx, start, today)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}

	levels, err := s.inventory.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory levels: %w", err)
	}
	inventory := make(map[string]int, len(levels))
	skus := make([]string, 0, len(levels))
	for _, level := range levels {
		inventory[level.SKU] = level.Quantity
		skus = append(skus, level.SKU)
	}

	past, err := forecast.Aggregate(items, start, today)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}

	// SKUs with zero sales in the lookback window have no history column and
	// are excluded from all predictions unless explicitly opted in.
	if s.cfg.IncludeUnsoldSKUs {
		past = past.WithSKUs(skus)
	}

	future, err := s.engine.Forecast(past, today, s.cfg.DaysInFuture)
	if err != nil {
		return nil, fmt.Errorf("forecast demand: %w", err)
	}

	outOfStock, err := replenish.PredictOutOfStock(future, inventory)
	if err != nil {
		return nil, fmt.Errorf("predict out of stock: %w", err)
	}

	quantities, err := replenish.ProposeReplenishment(future, inventory, until)
	if err != nil {
		return nil, fmt.Errorf("propose replenishment: %w", err)
	}

	report := &domain.ReplenishmentReport{
		GeneratedAt:  s.now().UTC(),
		DaysBack:     s.cfg.DaysBack,
		DaysInFuture: s.cfg.DaysInFuture,
		Until:        until,
	}
	for sku, date := range outOfStock {
		report.OutOfStock = append(report.OutOfStock, domain.OutOfStockEntry{
			SKU:      sku,
			Date:     date,
			DaysLeft: int(date.Sub(today).Hours() / 24),
		})
	}
	for sku, qty := range quantities {
		report.Replenishment = append(report.Replenishment, domain.ReplenishmentEntry{SKU: sku, Quantity: qty})
	}
	sort.Slice(report.OutOfStock, func(i, j int) bool {
		return report.OutOfStock[i].SKU < report.OutOfStock[j].SKU
	})
	sort.Slice(report.Replenishment, func(i, j int) bool {
		return report.Replenishment[i].SKU < report.Replenishment[j].SKU
	})

	log.Info().
		Int("skus", len(future.SKUs())).
		Int("out_of_stock", len(report.OutOfStock)).
		Int("replenishment", len(report.Replenishment)).
		Msg("replenishment report generated")

	return report, nil
}

// Latest returns the most recently persisted report.
func (s *ReportService) Latest(ctx context.Context) (*domain.ReplenishmentReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.Latest(ctx)
}

func (s *ReportService) archiveReport(ctx context.Context, report *domain.ReplenishmentReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Msg("report: archive encode failed")
		return
	}
	key := fmt.Sprintf("reports/%s.json", report.GeneratedAt.Format("20060102T150405"))
	if err := s.archive.Upload(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report: archive upload failed")
	}
}

func truncateToDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
