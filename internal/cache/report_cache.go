// internal/cache/report_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/domain"
)

const reportKeyPrefix = "replenishment:report"

// ReportCache keeps the most recent replenishment report per target date so
// repeated dashboard reads do not re-run the forecast.
type ReportCache interface {
	Get(ctx context.Context, until time.Time) (*domain.ReplenishmentReport, bool, error)
	Set(ctx context.Context, report *domain.ReplenishmentReport) error
	Invalidate(ctx context.Context, until time.Time) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a redis-backed cache when caching is enabled,
// otherwise a noop cache so callers need no nil checks.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) Get(ctx context.Context, until time.Time) (*domain.ReplenishmentReport, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(until)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.ReplenishmentReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, report *domain.ReplenishmentReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, reportKey(report.Until), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context, until time.Time) error {
	return c.client.Del(ctx, reportKey(until)).Err()
}

func (n *noopReportCache) Get(ctx context.Context, until time.Time) (*domain.ReplenishmentReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) Set(ctx context.Context, report *domain.ReplenishmentReport) error {
	return nil
}

func (n *noopReportCache) Invalidate(ctx context.Context, until time.Time) error {
	return nil
}

func reportKey(until time.Time) string {
	return fmt.Sprintf("%s:%s", reportKeyPrefix, until.UTC().Format("2006-01-02"))
}
