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

type AssessmentRepository struct {
	db *sqlx.DB
}

func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Upsert stores an assessment, replacing any earlier assessment of the
// same farm-month since assessments are recomputed whenever the
// underlying reading changes. assessment.ID is rewritten to the
// persisted row's id so claims reference the stable row, keeping the
// one-claim-per-(policy, assessment) invariant across reruns.
func (r *AssessmentRepository) Upsert(ctx context.Context, assessment *models.RiskAssessment) error {
	query := `
		INSERT INTO risk_assessments (id, farm_id, reading_id, year, month, risk_score,
		                              risk_category, vegetation_health, moisture_stress,
		                              triggered, trigger_reasons, created_at)
		VALUES (:id, :farm_id, :reading_id, :year, :month, :risk_score,
		        :risk_category, :vegetation_health, :moisture_stress,
		        :triggered, :trigger_reasons, :created_at)
		ON CONFLICT (farm_id, year, month) DO UPDATE SET
			reading_id = EXCLUDED.reading_id,
			risk_score = EXCLUDED.risk_score,
			risk_category = EXCLUDED.risk_category,
			vegetation_health = EXCLUDED.vegetation_health,
			moisture_stress = EXCLUDED.moisture_stress,
			triggered = EXCLUDED.triggered,
			trigger_reasons = EXCLUDED.trigger_reasons
		RETURNING id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, assessment)
	if err != nil {
		return fmt.Errorf("failed to upsert assessment: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&assessment.ID); err != nil {
			return fmt.Errorf("failed to scan upserted assessment id: %w", err)
		}
	}
	return rows.Err()
}

// GetLatestByFarm retrieves the most recent assessment for a farm, or
// nil when none exists yet.
func (r *AssessmentRepository) GetLatestByFarm(ctx context.Context, farmID uuid.UUID) (*models.RiskAssessment, error) {
	var assessment models.RiskAssessment
	query := `
		SELECT id, farm_id, reading_id, year, month, risk_score, risk_category,
		       vegetation_health, moisture_stress, triggered, trigger_reasons, created_at
		FROM risk_assessments
		WHERE farm_id = $1
		ORDER BY year DESC, month DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &assessment, query, farmID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest assessment: %w", err)
	}

	return &assessment, nil
}

// ListTriggered retrieves all triggered assessments for a period
func (r *AssessmentRepository) ListTriggered(ctx context.Context, year, month int) ([]models.RiskAssessment, error) {
	var assessments []models.RiskAssessment
	query := `
		SELECT id, farm_id, reading_id, year, month, risk_score, risk_category,
		       vegetation_health, moisture_stress, triggered, trigger_reasons, created_at
		FROM risk_assessments
		WHERE triggered = true AND year = $1 AND month = $2
		ORDER BY risk_score DESC
	`

	if err := r.db.SelectContext(ctx, &assessments, query, year, month); err != nil {
		return nil, fmt.Errorf("failed to list triggered assessments: %w", err)
	}

	return assessments, nil
}
