package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsuranceClaim records a payout demand raised against a policy, either
// automatically from a triggered assessment or manually by the holder.
type InsuranceClaim struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	ClaimNumber  string      `db:"claim_number" json:"claim_number"`
	PolicyID     uuid.UUID   `db:"policy_id" json:"policy_id"`
	FarmID       uuid.UUID   `db:"farm_id" json:"farm_id"`
	AssessmentID *uuid.UUID  `db:"assessment_id" json:"assessment_id,omitempty"`
	Status       ClaimStatus `db:"status" json:"status"`

	// Amount is what was claimed; the approved and paid amounts are
	// stamped as the claim moves through the state machine.
	Amount         decimal.Decimal  `db:"amount" json:"amount"`
	ApprovedAmount *decimal.Decimal `db:"approved_amount" json:"approved_amount,omitempty"`
	PaidAmount     *decimal.Decimal `db:"paid_amount" json:"paid_amount,omitempty"`

	// Evidence snapshot taken from the triggering reading and assessment.
	NDVI         *float64     `db:"ndvi" json:"ndvi,omitempty"`
	RainfallMM   *float64     `db:"rainfall_mm" json:"rainfall_mm,omitempty"`
	RiskCategory RiskCategory `db:"risk_category" json:"risk_category,omitempty"`

	Description string `db:"description" json:"description"`
	AutoCreated bool   `db:"auto_created" json:"auto_created"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
