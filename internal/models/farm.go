package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm is an insured smallholder plot monitored for drought conditions.
type Farm struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	FarmNumber string          `db:"farm_number" json:"farm_number"`
	OwnerID    uuid.UUID       `db:"owner_id" json:"owner_id"`
	Name       string          `db:"name" json:"name"`
	CropType   string          `db:"crop_type" json:"crop_type"`
	AreaHa     float64         `db:"area_ha" json:"area_ha"`
	Region     string          `db:"region" json:"region"`
	Boundary   *GeoJSONPolygon `db:"boundary" json:"boundary,omitempty"`
	Centroid   *GeoJSONPoint   `db:"centroid" json:"centroid,omitempty"`
	ZoneID     *int            `db:"zone_id" json:"zone_id,omitempty"`
	ZoneName   *string         `db:"zone_name" json:"zone_name,omitempty"`
	Active     bool            `db:"active" json:"active"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}
