// Package claims owns the claim lifecycle: the status state machine and
// the construction of claims from triggered assessments.
package claims

import (
	"errors"
	"fmt"
	"time"

	"drought-service/internal/models"
)

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

var (
	ErrInvalidTransition = errors.New("invalid claim status transition")
	ErrUnauthorized      = errors.New("role not allowed to perform this transition")
)

// transitions lists the legal next statuses per current status. Any
// pre-payment state can exit directly to cancelled.
var transitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimDraft:       {models.ClaimSubmitted, models.ClaimCancelled},
	models.ClaimSubmitted:   {models.ClaimUnderReview, models.ClaimCancelled},
	models.ClaimUnderReview: {models.ClaimApproved, models.ClaimRejected, models.ClaimCancelled},
	models.ClaimApproved:    {models.ClaimPaid, models.ClaimCancelled},
	models.ClaimRejected:    {models.ClaimClosed, models.ClaimCancelled},
	models.ClaimPaid:        {models.ClaimClosed},
}

// CanTransition reports whether the status change is legal, ignoring
// who is asking.
func CanTransition(from, to models.ClaimStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether the claim's content may still be changed.
func Editable(status models.ClaimStatus) bool {
	return status == models.ClaimDraft || status == models.ClaimSubmitted
}

// allowed checks role gating: submitting a draft is open to the policy
// holder and agents, every other move needs an administrator.
func allowed(from, to models.ClaimStatus, role Role) bool {
	if from == models.ClaimDraft && to == models.ClaimSubmitted {
		return true
	}
	return role == RoleAdmin
}

// Transition applies a status change in place, stamping the lifecycle
// timestamps as the claim moves through review and payment.
func Transition(claim *models.InsuranceClaim, to models.ClaimStatus, role Role, at time.Time) error {
	if !CanTransition(claim.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, claim.Status, to)
	}
	if !allowed(claim.Status, to, role) {
		return fmt.Errorf("%w: %s may not move claim from %s to %s", ErrUnauthorized, role, claim.Status, to)
	}

	claim.Status = to
	claim.UpdatedAt = at
	switch to {
	case models.ClaimSubmitted:
		claim.SubmittedAt = &at
	case models.ClaimApproved:
		claim.ResolvedAt = &at
		if claim.ApprovedAmount == nil {
			approved := claim.Amount
			claim.ApprovedAmount = &approved
		}
	case models.ClaimRejected:
		claim.ResolvedAt = &at
	case models.ClaimPaid:
		claim.PaidAt = &at
		if claim.PaidAmount == nil && claim.ApprovedAmount != nil {
			paid := *claim.ApprovedAmount
			claim.PaidAmount = &paid
		}
	}
	return nil
}
