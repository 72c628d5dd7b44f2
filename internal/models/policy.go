package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsurancePolicy is an index-insurance contract over a single farm.
// Monetary columns are NUMERIC in Postgres and carried as decimals so
// payout arithmetic never accumulates float error.
type InsurancePolicy struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PolicyNumber string          `db:"policy_number" json:"policy_number"`
	FarmID       uuid.UUID       `db:"farm_id" json:"farm_id"`
	HolderID     uuid.UUID       `db:"holder_id" json:"holder_id"`
	Status       PolicyStatus    `db:"status" json:"status"`
	SumInsured   decimal.Decimal `db:"sum_insured" json:"sum_insured"`
	MaxPayout    decimal.Decimal `db:"max_payout" json:"max_payout"`
	Deductible   decimal.Decimal `db:"deductible" json:"deductible"`
	Premium      decimal.Decimal `db:"premium" json:"premium"`
	// PayoutRate scales the summed trigger contributions, 0..1.
	PayoutRate float64 `db:"payout_rate" json:"payout_rate"`

	// Index triggers. A claim condition fires only on strict breach.
	NDVITrigger       float64 `db:"ndvi_trigger" json:"ndvi_trigger"`
	RainfallTriggerMM float64 `db:"rainfall_trigger_mm" json:"rainfall_trigger_mm"`
	// RiskLevelTrigger is the assessment category that contributes a
	// flat share of the sum insured. Empty disables that contribution.
	RiskLevelTrigger RiskCategory `db:"risk_level_trigger" json:"risk_level_trigger"`

	CoverageStart time.Time `db:"coverage_start" json:"coverage_start"`
	CoverageEnd   time.Time `db:"coverage_end" json:"coverage_end"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// InForce reports whether the policy covers the given date.
func (p *InsurancePolicy) InForce(at time.Time) bool {
	if p.Status != PolicyActive {
		return false
	}
	return !at.Before(p.CoverageStart) && !at.After(p.CoverageEnd)
}
