package repository

import (
	"context"
	"fmt"

	"drought-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FarmRepository struct {
	db *sqlx.DB
}

func NewFarmRepository(db *sqlx.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// GetByID retrieves a farm by its ID
func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	query := `
		SELECT id, farm_number, owner_id, name, crop_type, area_ha, region,
		       boundary, centroid, zone_id, zone_name, active, created_at, updated_at
		FROM farms
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &farm, query, id); err != nil {
		return nil, fmt.Errorf("failed to get farm by id: %w", err)
	}

	return &farm, nil
}

// GetActive retrieves all farms currently enrolled in monitoring
func (r *FarmRepository) GetActive(ctx context.Context) ([]models.Farm, error) {
	var farms []models.Farm
	query := `
		SELECT id, farm_number, owner_id, name, crop_type, area_ha, region,
		       boundary, centroid, zone_id, zone_name, active, created_at, updated_at
		FROM farms
		WHERE active = true
		ORDER BY farm_number
	`

	if err := r.db.SelectContext(ctx, &farms, query); err != nil {
		return nil, fmt.Errorf("failed to get active farms: %w", err)
	}

	return farms, nil
}

// Create inserts a new farm, generating its farm number
func (r *FarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	number, err := r.nextFarmNumber(ctx)
	if err != nil {
		return err
	}
	farm.FarmNumber = number

	query := `
		INSERT INTO farms (id, farm_number, owner_id, name, crop_type, area_ha, region,
		                   boundary, centroid, zone_id, zone_name, active, created_at, updated_at)
		VALUES (:id, :farm_number, :owner_id, :name, :crop_type, :area_ha, :region,
		        :boundary, :centroid, :zone_id, :zone_name, :active, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, farm); err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}

	return nil
}

// UpdateZone records the farm's trained zone assignment
func (r *FarmRepository) UpdateZone(ctx context.Context, farmID uuid.UUID, zoneID int, zoneName string) error {
	query := `
		UPDATE farms
		SET zone_id = $1, zone_name = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := r.db.ExecContext(ctx, query, zoneID, zoneName, farmID); err != nil {
		return fmt.Errorf("failed to update farm zone: %w", err)
	}

	return nil
}

// nextFarmNumber generates FARM-YYYY-MM-NNNN, sequential within the month
func (r *FarmRepository) nextFarmNumber(ctx context.Context) (string, error) {
	return nextNumber(ctx, r.db, "FARM", "farms", "farm_number")
}
