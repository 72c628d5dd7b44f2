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

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// CreateFromAssessment inserts an auto-generated claim, generating its
// claim number. The unique index on (policy_id, assessment_id) makes
// this idempotent: re-running a batch returns false instead of creating
// a duplicate claim for the same triggering assessment.
func (r *ClaimRepository) CreateFromAssessment(ctx context.Context, claim *models.InsuranceClaim) (bool, error) {
	number, err := nextNumber(ctx, r.db, "CLM", "insurance_claims", "claim_number")
	if err != nil {
		return false, err
	}
	claim.ClaimNumber = number

	query := `
		INSERT INTO insurance_claims (id, claim_number, policy_id, farm_id, assessment_id,
		                              status, amount, approved_amount, paid_amount,
		                              ndvi, rainfall_mm, risk_category,
		                              description, auto_created,
		                              submitted_at, resolved_at, paid_at, created_at, updated_at)
		VALUES (:id, :claim_number, :policy_id, :farm_id, :assessment_id,
		        :status, :amount, :approved_amount, :paid_amount,
		        :ndvi, :rainfall_mm, :risk_category,
		        :description, :auto_created,
		        :submitted_at, :resolved_at, :paid_at, :created_at, :updated_at)
		ON CONFLICT (policy_id, assessment_id) DO NOTHING
	`

	res, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return false, fmt.Errorf("failed to create claim: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check claim insert: %w", err)
	}
	return rows > 0, nil
}

// GetByID retrieves a claim by its ID
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InsuranceClaim, error) {
	var claim models.InsuranceClaim
	query := `
		SELECT id, claim_number, policy_id, farm_id, assessment_id, status, amount,
		       approved_amount, paid_amount, ndvi, rainfall_mm, risk_category,
		       description, auto_created, submitted_at, resolved_at, paid_at,
		       created_at, updated_at
		FROM insurance_claims
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &claim, query, id); err != nil {
		return nil, fmt.Errorf("failed to get claim by id: %w", err)
	}

	return &claim, nil
}

// GetByPolicyAssessment retrieves the claim for one (policy, assessment)
// pair, or nil when none was created.
func (r *ClaimRepository) GetByPolicyAssessment(ctx context.Context, policyID, assessmentID uuid.UUID) (*models.InsuranceClaim, error) {
	var claim models.InsuranceClaim
	query := `
		SELECT id, claim_number, policy_id, farm_id, assessment_id, status, amount,
		       approved_amount, paid_amount, ndvi, rainfall_mm, risk_category,
		       description, auto_created, submitted_at, resolved_at, paid_at,
		       created_at, updated_at
		FROM insurance_claims
		WHERE policy_id = $1 AND assessment_id = $2
	`

	err := r.db.GetContext(ctx, &claim, query, policyID, assessmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim for assessment: %w", err)
	}

	return &claim, nil
}

// ListByPolicy retrieves all claims raised against a policy
func (r *ClaimRepository) ListByPolicy(ctx context.Context, policyID uuid.UUID) ([]models.InsuranceClaim, error) {
	var claims []models.InsuranceClaim
	query := `
		SELECT id, claim_number, policy_id, farm_id, assessment_id, status, amount,
		       approved_amount, paid_amount, ndvi, rainfall_mm, risk_category,
		       description, auto_created, submitted_at, resolved_at, paid_at,
		       created_at, updated_at
		FROM insurance_claims
		WHERE policy_id = $1
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &claims, query, policyID); err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	return claims, nil
}

// Update persists a claim's mutable fields after a status transition
func (r *ClaimRepository) Update(ctx context.Context, claim *models.InsuranceClaim) error {
	query := `
		UPDATE insurance_claims
		SET status = :status,
		    amount = :amount,
		    approved_amount = :approved_amount,
		    paid_amount = :paid_amount,
		    description = :description,
		    submitted_at = :submitted_at,
		    resolved_at = :resolved_at,
		    paid_at = :paid_at,
		    updated_at = :updated_at
		WHERE id = :id
	`

	if _, err := r.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	return nil
}
