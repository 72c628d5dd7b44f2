package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskAssessment is the scored interpretation of one monthly reading.
type RiskAssessment struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	FarmID           uuid.UUID        `db:"farm_id" json:"farm_id"`
	ReadingID        uuid.UUID        `db:"reading_id" json:"reading_id"`
	Year             int              `db:"year" json:"year"`
	Month            int              `db:"month" json:"month"`
	RiskScore        int              `db:"risk_score" json:"risk_score"`
	RiskCategory     RiskCategory     `db:"risk_category" json:"risk_category"`
	VegetationHealth VegetationHealth `db:"vegetation_health" json:"vegetation_health"`
	MoistureStress   MoistureStress   `db:"moisture_stress" json:"moisture_stress"`
	Triggered        bool             `db:"triggered" json:"triggered"`
	TriggerReasons   string           `db:"trigger_reasons" json:"trigger_reasons"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}
