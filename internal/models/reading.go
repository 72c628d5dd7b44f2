package models

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyIndexReading holds the aggregated satellite indices and rainfall
// for one farm over one calendar month. Index pointers are nil when the
// imagery for that month could not produce the band combination.
type MonthlyIndexReading struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FarmID     uuid.UUID `db:"farm_id" json:"farm_id"`
	Year       int       `db:"year" json:"year"`
	Month      int       `db:"month" json:"month"`
	NDVI       *float64  `db:"ndvi" json:"ndvi,omitempty"`
	NDMI       *float64  `db:"ndmi" json:"ndmi,omitempty"`
	EVI        *float64  `db:"evi" json:"evi,omitempty"`
	SAVI       *float64  `db:"savi" json:"savi,omitempty"`
	NDRE       *float64  `db:"ndre" json:"ndre,omitempty"`
	BSI        *float64  `db:"bsi" json:"bsi,omitempty"`
	RainfallMM *float64  `db:"rainfall_mm" json:"rainfall_mm,omitempty"`
	ImageCount int       `db:"image_count" json:"image_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Period returns the reading's year and month as a single sortable key.
func (r *MonthlyIndexReading) Period() int {
	return r.Year*100 + r.Month
}
