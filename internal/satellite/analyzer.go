// Package satellite defines the boundary to the external imagery
// provider. The provider computes monthly index composites per farm; the
// rest of the system consumes its results as an opaque input.
package satellite

import (
	"context"
	"errors"

	"drought-service/internal/models"
)

// ErrNoData reports that the provider had no usable imagery for the
// requested farm and period. Callers treat it as "skip this period",
// not as a failure.
var ErrNoData = errors.New("no satellite data for period")

// Analyzer produces one monthly index reading per farm and period.
// Implementations may be slow and may fail per call; callers isolate
// failures per farm. Retry policy belongs to the implementation.
type Analyzer interface {
	AnalyzeFarm(ctx context.Context, farm *models.Farm, year, month int) (*models.MonthlyIndexReading, error)
}
