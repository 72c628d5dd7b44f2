package satellite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"drought-service/internal/models"
	"drought-service/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReadingCache keeps recent provider results in Redis so re-running a
// batch for the same period does not hit the provider again.
type ReadingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReadingCache(rdb *redis.Client, ttl time.Duration) *ReadingCache {
	return &ReadingCache{rdb: rdb, ttl: ttl}
}

func cacheKey(farmID uuid.UUID, year, month int) string {
	return fmt.Sprintf("drought:reading:%s:%d:%d", farmID, year, month)
}

// Get returns the cached reading, or nil on a cache miss.
func (c *ReadingCache) Get(ctx context.Context, farmID uuid.UUID, year, month int) (*models.MonthlyIndexReading, error) {
	data, err := c.rdb.Get(ctx, cacheKey(farmID, year, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached reading: %w", err)
	}

	var reading models.MonthlyIndexReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil, fmt.Errorf("failed to decode cached reading: %w", err)
	}
	return &reading, nil
}

func (c *ReadingCache) Put(ctx context.Context, reading *models.MonthlyIndexReading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to encode reading for cache: %w", err)
	}
	key := cacheKey(reading.FarmID, reading.Year, reading.Month)
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache reading: %w", err)
	}
	return nil
}

// Cache is the lookup contract CachingAnalyzer needs; ReadingCache
// satisfies it with Redis and tests use an in-memory map.
type Cache interface {
	Get(ctx context.Context, farmID uuid.UUID, year, month int) (*models.MonthlyIndexReading, error)
	Put(ctx context.Context, reading *models.MonthlyIndexReading) error
}

// CachingAnalyzer wraps a provider with the reading cache. Cache errors
// degrade to a provider call; they never fail the analysis.
type CachingAnalyzer struct {
	inner   Analyzer
	cache   Cache
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCachingAnalyzer(inner Analyzer, cache Cache, metrics *observability.Metrics, logger *slog.Logger) *CachingAnalyzer {
	return &CachingAnalyzer{inner: inner, cache: cache, metrics: metrics, logger: logger}
}

func (a *CachingAnalyzer) AnalyzeFarm(ctx context.Context, farm *models.Farm, year, month int) (*models.MonthlyIndexReading, error) {
	cached, err := a.cache.Get(ctx, farm.ID, year, month)
	if err != nil {
		a.logger.Warn("reading cache lookup failed", "farm_id", farm.ID, "error", err)
	}
	if cached != nil {
		a.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	a.metrics.CacheLookups.WithLabelValues("miss").Inc()

	reading, err := a.inner.AnalyzeFarm(ctx, farm, year, month)
	if err != nil {
		return nil, err
	}

	if err := a.cache.Put(ctx, reading); err != nil {
		a.logger.Warn("failed to cache reading", "farm_id", farm.ID, "error", err)
	}
	return reading, nil
}
