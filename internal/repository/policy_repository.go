package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drought-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Create inserts a new policy, generating its policy number
func (r *PolicyRepository) Create(ctx context.Context, policy *models.InsurancePolicy) error {
	number, err := nextNumber(ctx, r.db, "POL", "insurance_policies", "policy_number")
	if err != nil {
		return err
	}
	policy.PolicyNumber = number

	query := `
		INSERT INTO insurance_policies (id, policy_number, farm_id, holder_id, status,
		                                sum_insured, max_payout, deductible, premium, payout_rate,
		                                ndvi_trigger, rainfall_trigger_mm, risk_level_trigger,
		                                coverage_start, coverage_end, created_at, updated_at)
		VALUES (:id, :policy_number, :farm_id, :holder_id, :status,
		        :sum_insured, :max_payout, :deductible, :premium, :payout_rate,
		        :ndvi_trigger, :rainfall_trigger_mm, :risk_level_trigger,
		        :coverage_start, :coverage_end, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, policy); err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	return nil
}

// GetByID retrieves a policy by its ID
func (r *PolicyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InsurancePolicy, error) {
	var policy models.InsurancePolicy
	query := `
		SELECT id, policy_number, farm_id, holder_id, status, sum_insured, max_payout,
		       deductible, premium, payout_rate, ndvi_trigger, rainfall_trigger_mm,
		       risk_level_trigger, coverage_start, coverage_end, created_at, updated_at
		FROM insurance_policies
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &policy, query, id); err != nil {
		return nil, fmt.Errorf("failed to get policy by id: %w", err)
	}

	return &policy, nil
}

// GetActiveByFarm retrieves the farm's active policy covering the given
// date, or nil when the farm is uninsured for that period.
func (r *PolicyRepository) GetActiveByFarm(ctx context.Context, farmID uuid.UUID, at time.Time) (*models.InsurancePolicy, error) {
	var policy models.InsurancePolicy
	query := `
		SELECT id, policy_number, farm_id, holder_id, status, sum_insured, max_payout,
		       deductible, premium, payout_rate, ndvi_trigger, rainfall_trigger_mm,
		       risk_level_trigger, coverage_start, coverage_end, created_at, updated_at
		FROM insurance_policies
		WHERE farm_id = $1
		  AND status = $2
		  AND coverage_start <= $3
		  AND coverage_end >= $3
		ORDER BY coverage_end DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &policy, query, farmID, models.PolicyActive, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active policy: %w", err)
	}

	return &policy, nil
}

// UpdateStatus moves a policy to a new lifecycle status
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PolicyStatus) error {
	query := `
		UPDATE insurance_policies
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update policy status: %w", err)
	}

	return nil
}

// ExpireEnded marks active policies whose coverage window has passed
func (r *PolicyRepository) ExpireEnded(ctx context.Context, at time.Time) (int64, error) {
	query := `
		UPDATE insurance_policies
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND coverage_end < $3
	`

	res, err := r.db.ExecContext(ctx, query, models.PolicyExpired, models.PolicyActive, at)
	if err != nil {
		return 0, fmt.Errorf("failed to expire policies: %w", err)
	}

	return res.RowsAffected()
}
