package satellite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"drought-service/internal/models"
	"drought-service/internal/observability"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type memoryCache struct {
	store  map[string]*models.MonthlyIndexReading
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string]*models.MonthlyIndexReading)}
}

func memKey(farmID uuid.UUID, year, month int) string {
	return fmt.Sprintf("%s/%d/%d", farmID, year, month)
}

func (c *memoryCache) Get(_ context.Context, farmID uuid.UUID, year, month int) (*models.MonthlyIndexReading, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[memKey(farmID, year, month)], nil
}

func (c *memoryCache) Put(_ context.Context, reading *models.MonthlyIndexReading) error {
	c.store[memKey(reading.FarmID, reading.Year, reading.Month)] = reading
	return nil
}

type countingAnalyzer struct {
	calls int
}

func (a *countingAnalyzer) AnalyzeFarm(_ context.Context, farm *models.Farm, year, month int) (*models.MonthlyIndexReading, error) {
	a.calls++
	ndvi := 0.42
	return &models.MonthlyIndexReading{
		ID:         uuid.New(),
		FarmID:     farm.ID,
		Year:       year,
		Month:      month,
		NDVI:       &ndvi,
		ImageCount: 2,
	}, nil
}

func lookupCount(t *testing.T, m *observability.Metrics, result string) float64 {
	t.Helper()
	return testutil.ToFloat64(m.CacheLookups.WithLabelValues(result))
}

// ============================================================================
// TEST SUITE: CACHING ANALYZER
// ============================================================================

func TestCachingAnalyzer_SecondCallServedFromCache(t *testing.T) {
	provider := &countingAnalyzer{}
	cache := newMemoryCache()
	metrics := observability.NewMetricsForTesting()
	analyzer := NewCachingAnalyzer(provider, cache, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	farm := &models.Farm{ID: uuid.New(), FarmNumber: "FARM-2026-07-0001"}

	first, err := analyzer.AnalyzeFarm(context.Background(), farm, 2026, 7)
	require.NoError(t, err)
	second, err := analyzer.AnalyzeFarm(context.Background(), farm, 2026, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls, "second lookup must not hit the provider")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1.0, lookupCount(t, metrics, "miss"))
	assert.Equal(t, 1.0, lookupCount(t, metrics, "hit"))
}

func TestCachingAnalyzer_DistinctPeriodsAreDistinctEntries(t *testing.T) {
	provider := &countingAnalyzer{}
	metrics := observability.NewMetricsForTesting()
	analyzer := NewCachingAnalyzer(provider, newMemoryCache(), metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	farm := &models.Farm{ID: uuid.New()}

	_, err := analyzer.AnalyzeFarm(context.Background(), farm, 2026, 6)
	require.NoError(t, err)
	_, err = analyzer.AnalyzeFarm(context.Background(), farm, 2026, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, 2.0, lookupCount(t, metrics, "miss"))
}

func TestCachingAnalyzer_CacheErrorFallsThroughToProvider(t *testing.T) {
	provider := &countingAnalyzer{}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	metrics := observability.NewMetricsForTesting()
	analyzer := NewCachingAnalyzer(provider, cache, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	reading, err := analyzer.AnalyzeFarm(context.Background(), &models.Farm{ID: uuid.New()}, 2026, 7)

	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1.0, lookupCount(t, metrics, "miss"))
}

func TestReadingCacheKeyFormat(t *testing.T) {
	farmID := uuid.MustParse("3d7a1f9e-9a1a-4a3d-8d6f-2f5b9c0e1a2b")

	key := cacheKey(farmID, 2026, 7)

	assert.Equal(t, "drought:reading:3d7a1f9e-9a1a-4a3d-8d6f-2f5b9c0e1a2b:2026:7", key)
}
