package zones

import (
	"errors"
	"fmt"

	"drought-service/internal/features"
	"drought-service/internal/models"
)

// ErrFeatureMismatch reports that a feature the persisted model expects
// could not be produced from the input. Substituting zero would feed the
// scaler a value from the wrong distribution, so this is a hard error.
var ErrFeatureMismatch = errors.New("model input mismatch: missing feature")

// Prediction is the zone lookup for one location. Everything beyond the
// rainfall summary comes straight from the persisted profile.
type Prediction struct {
	ZoneID            int                `json:"zone_id"`
	ZoneName          string             `json:"zone_name"`
	ZoneType          models.ZoneType    `json:"zone_type"`
	DroughtRisk       models.DroughtRisk `json:"drought_risk"`
	TotalRainfall     float64            `json:"total_rainfall"`
	RainyDaysPercent  float64            `json:"rainy_days_percent"`
	PremiumMultiplier float64            `json:"premium_multiplier"`
	RiskPoints        int                `json:"risk_points"`
}

// Predictor assigns new locations to trained zones. It is read-only
// after construction and safe for concurrent use.
type Predictor struct {
	bundle *ModelBundle
}

func NewPredictor(bundle *ModelBundle) (*Predictor, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{bundle: bundle}, nil
}

// LoadPredictor reads a persisted bundle and wraps it for inference.
func LoadPredictor(path string) (*Predictor, error) {
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return &Predictor{bundle: bundle}, nil
}

// Predict classifies one location from its 12 monthly rainfall totals,
// January through December.
func (p *Predictor) Predict(monthly [12]float64) (*Prediction, error) {
	vector := features.Extract(features.FromMonthlySeries(monthly))

	row := make([]float64, len(p.bundle.FeatureNames))
	for i, name := range p.bundle.FeatureNames {
		val, ok := vector[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFeatureMismatch, name)
		}
		row[i] = val
	}

	scaled, err := p.bundle.Scaler.Transform(row)
	if err != nil {
		return nil, err
	}

	zoneID, _ := nearestCentroid(p.bundle.Centroids, scaled)
	profile, ok := p.bundle.Profiles[zoneID]
	if !ok {
		return nil, fmt.Errorf("no profile for zone %d", zoneID)
	}

	return &Prediction{
		ZoneID:            zoneID,
		ZoneName:          profile.ZoneName,
		ZoneType:          profile.ZoneType,
		DroughtRisk:       profile.DroughtRisk,
		TotalRainfall:     vector["total_rainfall"],
		RainyDaysPercent:  vector["rainy_days_percent"],
		PremiumMultiplier: profile.PremiumMultiplier,
		RiskPoints:        profile.RiskPoints,
	}, nil
}
