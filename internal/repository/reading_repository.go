package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drought-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReadingRepository struct {
	db *sqlx.DB
}

func NewReadingRepository(db *sqlx.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Upsert stores one monthly reading. At most one reading exists per
// (farm, year, month); re-running an analysis overwrites the old row
// and reading.ID is rewritten to the persisted row's id.
func (r *ReadingRepository) Upsert(ctx context.Context, reading *models.MonthlyIndexReading) error {
	query := `
		INSERT INTO monthly_readings (id, farm_id, year, month, ndvi, ndmi, evi, savi, ndre, bsi,
		                              rainfall_mm, image_count, created_at)
		VALUES (:id, :farm_id, :year, :month, :ndvi, :ndmi, :evi, :savi, :ndre, :bsi,
		        :rainfall_mm, :image_count, :created_at)
		ON CONFLICT (farm_id, year, month) DO UPDATE SET
			ndvi = EXCLUDED.ndvi,
			ndmi = EXCLUDED.ndmi,
			evi = EXCLUDED.evi,
			savi = EXCLUDED.savi,
			ndre = EXCLUDED.ndre,
			bsi = EXCLUDED.bsi,
			rainfall_mm = EXCLUDED.rainfall_mm,
			image_count = EXCLUDED.image_count
		RETURNING id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, reading)
	if err != nil {
		return fmt.Errorf("failed to upsert reading: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&reading.ID); err != nil {
			return fmt.Errorf("failed to scan upserted reading id: %w", err)
		}
	}
	return rows.Err()
}

// GetByFarmPeriod retrieves the reading for one farm-month, or nil if
// the period was never analyzed.
func (r *ReadingRepository) GetByFarmPeriod(ctx context.Context, farmID uuid.UUID, year, month int) (*models.MonthlyIndexReading, error) {
	var reading models.MonthlyIndexReading
	query := `
		SELECT id, farm_id, year, month, ndvi, ndmi, evi, savi, ndre, bsi,
		       rainfall_mm, image_count, created_at
		FROM monthly_readings
		WHERE farm_id = $1 AND year = $2 AND month = $3
	`

	err := r.db.GetContext(ctx, &reading, query, farmID, year, month)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}

	return &reading, nil
}

// ListByFarm retrieves a farm's readings ordered oldest first
func (r *ReadingRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.MonthlyIndexReading, error) {
	var readings []models.MonthlyIndexReading
	query := `
		SELECT id, farm_id, year, month, ndvi, ndmi, evi, savi, ndre, bsi,
		       rainfall_mm, image_count, created_at
		FROM monthly_readings
		WHERE farm_id = $1
		ORDER BY year, month
	`

	if err := r.db.SelectContext(ctx, &readings, query, farmID); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}

	return readings, nil
}
