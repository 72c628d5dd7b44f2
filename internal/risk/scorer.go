// Package risk scores monthly satellite readings into drought risk
// assessments and computes policy payouts from them.
package risk

import (
	"fmt"
	"strings"
	"time"

	"drought-service/internal/models"

	"github.com/google/uuid"
)

// ScorerConfig holds the trigger thresholds the scorer consults. Passing
// them explicitly keeps the scorer deterministic under test instead of
// reading ambient environment state.
type ScorerConfig struct {
	// NDVISevereThreshold fires the vegetation trigger when NDVI drops below it.
	NDVISevereThreshold float64
	// RainfallThresholdMM fires the rainfall trigger when monthly rainfall drops below it.
	RainfallThresholdMM float64
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		NDVISevereThreshold: 0.3,
		RainfallThresholdMM: 50,
	}
}

// Scorer turns one monthly reading into a risk assessment. Scoring is a
// pure function of the reading and the configured thresholds.
type Scorer struct {
	cfg ScorerConfig
}

func NewScorer(cfg ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the 0-100 risk score, category, qualitative labels and
// the insurance trigger for one reading. Missing index values contribute
// zero points rather than failing the assessment.
func (s *Scorer) Score(reading *models.MonthlyIndexReading) *models.RiskAssessment {
	score := riskScore(reading)
	category := categorize(score)

	assessment := &models.RiskAssessment{
		ID:               uuid.New(),
		FarmID:           reading.FarmID,
		ReadingID:        reading.ID,
		Year:             reading.Year,
		Month:            reading.Month,
		RiskScore:        score,
		RiskCategory:     category,
		VegetationHealth: vegetationHealth(reading.NDVI),
		MoistureStress:   moistureStress(reading.NDMI),
		CreatedAt:        time.Now().UTC(),
	}

	assessment.Triggered, assessment.TriggerReasons = s.checkTrigger(reading, category)
	return assessment
}

// riskScore sums the four weighted factors. NDVI carries up to 40
// points, rainfall 30, NDMI 20 and BSI 10, so the sum stays within 100;
// the cap stands anyway.
func riskScore(reading *models.MonthlyIndexReading) int {
	score := 0

	if reading.NDVI != nil {
		switch ndvi := *reading.NDVI; {
		case ndvi < 0.2:
			score += 40
		case ndvi < 0.3:
			score += 30
		case ndvi < 0.4:
			score += 20
		case ndvi < 0.6:
			score += 10
		}
	}

	if reading.RainfallMM != nil {
		switch rain := *reading.RainfallMM; {
		case rain < 25:
			score += 30
		case rain < 50:
			score += 20
		case rain < 75:
			score += 10
		}
	}

	if reading.NDMI != nil {
		switch ndmi := *reading.NDMI; {
		case ndmi < 0:
			score += 20
		case ndmi < 0.2:
			score += 10
		}
	}

	if reading.BSI != nil && *reading.BSI > 0.3 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func categorize(score int) models.RiskCategory {
	switch {
	case score >= 70:
		return models.RiskHigh
	case score >= 40:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

func vegetationHealth(ndvi *float64) models.VegetationHealth {
	if ndvi == nil {
		return ""
	}
	switch {
	case *ndvi > 0.6:
		return models.VegetationExcellent
	case *ndvi > 0.4:
		return models.VegetationGood
	case *ndvi > 0.3:
		return models.VegetationModerate
	case *ndvi > 0.2:
		return models.VegetationPoor
	default:
		return models.VegetationCritical
	}
}

func moistureStress(ndmi *float64) models.MoistureStress {
	if ndmi == nil {
		return ""
	}
	switch {
	case *ndmi > 0.2:
		return models.MoistureNone
	case *ndmi > 0.1:
		return models.MoistureMild
	case *ndmi > 0:
		return models.MoistureModerate
	default:
		return models.MoistureSevere
	}
}

// checkTrigger evaluates the three independent trigger conditions and
// joins the matched reasons into one explanation string.
func (s *Scorer) checkTrigger(reading *models.MonthlyIndexReading, category models.RiskCategory) (bool, string) {
	var reasons []string

	if reading.NDVI != nil && *reading.NDVI < s.cfg.NDVISevereThreshold {
		reasons = append(reasons, fmt.Sprintf("NDVI (%.2f) below threshold (%g)", *reading.NDVI, s.cfg.NDVISevereThreshold))
	}

	if reading.RainfallMM != nil && *reading.RainfallMM < s.cfg.RainfallThresholdMM {
		reasons = append(reasons, fmt.Sprintf("Rainfall (%.1fmm) below threshold (%gmm)", *reading.RainfallMM, s.cfg.RainfallThresholdMM))
	}

	if category == models.RiskModerate || category == models.RiskHigh {
		reasons = append(reasons, fmt.Sprintf("Drought risk level: %s", category))
	}

	if len(reasons) == 0 {
		return false, ""
	}
	return true, strings.Join(reasons, "; ")
}
