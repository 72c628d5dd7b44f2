package analysis

import (
	"context"
	"log/slog"

	"drought-service/internal/models"
	"drought-service/internal/zones"

	"github.com/google/uuid"
)

type ZonePredictor interface {
	Predict(monthly [12]float64) (*zones.Prediction, error)
}

type FarmZoneStore interface {
	UpdateZone(ctx context.Context, farmID uuid.UUID, zoneID int, zoneName string) error
}

type ReadingLister interface {
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.MonthlyIndexReading, error)
}

// ZoneAssigner classifies farms into trained rainfall zones from their
// own recorded rainfall history.
type ZoneAssigner struct {
	predictor ZonePredictor
	readings  ReadingLister
	farms     FarmZoneStore
	logger    *slog.Logger
}

func NewZoneAssigner(predictor ZonePredictor, readings ReadingLister, farms FarmZoneStore, logger *slog.Logger) *ZoneAssigner {
	return &ZoneAssigner{
		predictor: predictor,
		readings:  readings,
		farms:     farms,
		logger:    logger,
	}
}

// AssignMissing fills zone_id and zone_name for farms that have none,
// feeding the predictor the farm's mean rainfall per calendar month. A
// farm stays unassigned until its readings cover all twelve months.
// The passed farms are updated in place; returns how many were assigned.
func (z *ZoneAssigner) AssignMissing(ctx context.Context, farms []models.Farm) int {
	assigned := 0
	for i := range farms {
		farm := &farms[i]
		if farm.ZoneID != nil {
			continue
		}

		monthly, complete, err := z.monthlyMeans(ctx, farm.ID)
		if err != nil {
			z.logger.Error("failed to load rainfall history for zone assignment", "farm", farm.FarmNumber, "error", err)
			continue
		}
		if !complete {
			continue
		}

		prediction, err := z.predictor.Predict(monthly)
		if err != nil {
			z.logger.Error("zone prediction failed", "farm", farm.FarmNumber, "error", err)
			continue
		}

		if err := z.farms.UpdateZone(ctx, farm.ID, prediction.ZoneID, prediction.ZoneName); err != nil {
			z.logger.Error("failed to store farm zone", "farm", farm.FarmNumber, "error", err)
			continue
		}

		zoneID, zoneName := prediction.ZoneID, prediction.ZoneName
		farm.ZoneID = &zoneID
		farm.ZoneName = &zoneName
		assigned++

		z.logger.Info("farm assigned to rainfall zone",
			"farm", farm.FarmNumber,
			"zone", prediction.ZoneName,
			"zone_type", prediction.ZoneType,
			"drought_risk", prediction.DroughtRisk,
			"premium_multiplier", prediction.PremiumMultiplier,
		)
	}
	return assigned
}

// monthlyMeans averages the farm's recorded rainfall per calendar month
// across years. complete is false until every month has at least one
// reading with rainfall.
func (z *ZoneAssigner) monthlyMeans(ctx context.Context, farmID uuid.UUID) (monthly [12]float64, complete bool, err error) {
	readings, err := z.readings.ListByFarm(ctx, farmID)
	if err != nil {
		return monthly, false, err
	}

	var sums, counts [12]float64
	for _, r := range readings {
		if r.RainfallMM == nil || r.Month < 1 || r.Month > 12 {
			continue
		}
		sums[r.Month-1] += *r.RainfallMM
		counts[r.Month-1]++
	}

	for i := range monthly {
		if counts[i] == 0 {
			return monthly, false, nil
		}
		monthly[i] = sums[i] / counts[i]
	}
	return monthly, true, nil
}
