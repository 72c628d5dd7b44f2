package risk

import (
	"fmt"

	"drought-service/internal/models"

	"github.com/shopspring/decimal"
)

// PayoutResult is the computed claim amount plus the conditions that
// produced it. Amount is rounded to cents and bounded by the policy cap.
type PayoutResult struct {
	Amount   decimal.Decimal
	Triggers []string
}

// CalculatePayout maps a policy's trigger parameters and one month's
// reading/assessment pair to a payout amount. Each trigger fires only on
// a strict breach; values exactly at a threshold pay nothing. A nil
// reading yields zero, never an error.
func CalculatePayout(policy *models.InsurancePolicy, reading *models.MonthlyIndexReading, assessment *models.RiskAssessment) PayoutResult {
	result := PayoutResult{Amount: decimal.Zero}
	if policy == nil || reading == nil {
		return result
	}

	payout := decimal.Zero

	// NDVI deficit contributes proportionally to how far below the
	// trigger the index fell, weighted at 40% of the sum insured.
	if reading.NDVI != nil && policy.NDVITrigger > 0 && *reading.NDVI < policy.NDVITrigger {
		severity := (policy.NDVITrigger - *reading.NDVI) / policy.NDVITrigger
		payout = payout.Add(policy.SumInsured.Mul(decimal.NewFromFloat(severity * 0.4)))
		result.Triggers = append(result.Triggers, fmt.Sprintf("NDVI: %.2f", *reading.NDVI))
	}

	// Rainfall deficit, same proportional shape and weight.
	if reading.RainfallMM != nil && policy.RainfallTriggerMM > 0 && *reading.RainfallMM < policy.RainfallTriggerMM {
		severity := (policy.RainfallTriggerMM - *reading.RainfallMM) / policy.RainfallTriggerMM
		payout = payout.Add(policy.SumInsured.Mul(decimal.NewFromFloat(severity * 0.4)))
		result.Triggers = append(result.Triggers, fmt.Sprintf("Rainfall: %.1fmm", *reading.RainfallMM))
	}

	// Risk-level trigger adds a flat 20% share. A moderate-level policy
	// accepts moderate or high; a high-level policy requires high.
	if assessment != nil && riskLevelMet(policy.RiskLevelTrigger, assessment.RiskCategory) {
		payout = payout.Add(policy.SumInsured.Mul(decimal.NewFromFloat(0.2)))
		result.Triggers = append(result.Triggers, fmt.Sprintf("Risk: %s", assessment.RiskCategory))
	}

	if len(result.Triggers) == 0 {
		return result
	}

	amount := payout.Mul(decimal.NewFromFloat(policy.PayoutRate)).Sub(policy.Deductible)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(policy.MaxPayout) {
		amount = policy.MaxPayout
	}
	result.Amount = amount.Round(2)
	return result
}

func riskLevelMet(trigger models.RiskCategory, category models.RiskCategory) bool {
	switch trigger {
	case models.RiskModerate:
		return category == models.RiskModerate || category == models.RiskHigh
	case models.RiskHigh:
		return category == models.RiskHigh
	default:
		return false
	}
}
