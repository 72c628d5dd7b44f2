package claims

import (
	"fmt"
	"time"

	"drought-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewFromAssessment builds a draft claim for a triggered assessment and
// its computed payout, snapshotting the evidence values from the reading
// so the claim stands on its own during review. The caller persists it;
// the repository enforces the one-claim-per-(policy, assessment)
// invariant.
func NewFromAssessment(policy *models.InsurancePolicy, reading *models.MonthlyIndexReading, assessment *models.RiskAssessment, amount decimal.Decimal, triggers []string) *models.InsuranceClaim {
	now := time.Now().UTC()
	assessmentID := assessment.ID
	claim := &models.InsuranceClaim{
		ID:           uuid.New(),
		PolicyID:     policy.ID,
		FarmID:       policy.FarmID,
		AssessmentID: &assessmentID,
		Status:       models.ClaimDraft,
		Amount:       amount,
		RiskCategory: assessment.RiskCategory,
		Description:  describeTriggers(assessment, triggers),
		AutoCreated:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if reading != nil {
		claim.NDVI = reading.NDVI
		claim.RainfallMM = reading.RainfallMM
	}
	return claim
}

func describeTriggers(assessment *models.RiskAssessment, triggers []string) string {
	desc := fmt.Sprintf("Automatic claim for %04d-%02d drought conditions", assessment.Year, assessment.Month)
	if len(triggers) == 0 {
		return desc
	}
	for i, t := range triggers {
		if i == 0 {
			desc += ": " + t
			continue
		}
		desc += "; " + t
	}
	return desc
}
