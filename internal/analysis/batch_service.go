// Package analysis runs the monthly drought analysis across all
// monitored farms: fetch indices, score risk, persist, and raise claims
// and alerts for triggered farms.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drought-service/internal/claims"
	"drought-service/internal/event"
	"drought-service/internal/models"
	"drought-service/internal/observability"
	"drought-service/internal/risk"
	"drought-service/internal/satellite"

	"github.com/google/uuid"
)

// Store interfaces are satisfied by the sqlx repositories; tests supply
// in-memory fakes.
type ReadingStore interface {
	Upsert(ctx context.Context, reading *models.MonthlyIndexReading) error
}

type AssessmentStore interface {
	Upsert(ctx context.Context, assessment *models.RiskAssessment) error
}

type PolicyStore interface {
	GetActiveByFarm(ctx context.Context, farmID uuid.UUID, at time.Time) (*models.InsurancePolicy, error)
}

type ClaimStore interface {
	CreateFromAssessment(ctx context.Context, claim *models.InsuranceClaim) (bool, error)
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert event.DroughtAlertEvent) error
}

// FarmResult is the per-farm outcome of a batch run. Exactly one of the
// success fields or Err is meaningful; Skipped marks farms the provider
// had no imagery for.
type FarmResult struct {
	FarmID     uuid.UUID
	FarmNumber string
	Reading    *models.MonthlyIndexReading
	Assessment *models.RiskAssessment
	Claim      *models.InsuranceClaim
	Skipped    bool
	Err        error
}

// BatchService fans the monthly analysis out over a bounded set of
// workers. Every farm is processed independently; one farm's failure
// never aborts the rest of the batch.
type BatchService struct {
	analyzer    satellite.Analyzer
	scorer      *risk.Scorer
	readings    ReadingStore
	assessments AssessmentStore
	policies    PolicyStore
	claimStore  ClaimStore
	alerts      AlertPublisher
	metrics     *observability.Metrics
	logger      *slog.Logger
	workers     int
}

func NewBatchService(
	analyzer satellite.Analyzer,
	scorer *risk.Scorer,
	readings ReadingStore,
	assessments AssessmentStore,
	policies PolicyStore,
	claimStore ClaimStore,
	alerts AlertPublisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
	workers int,
) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		analyzer:    analyzer,
		scorer:      scorer,
		readings:    readings,
		assessments: assessments,
		policies:    policies,
		claimStore:  claimStore,
		alerts:      alerts,
		metrics:     metrics,
		logger:      logger,
		workers:     workers,
	}
}

// RunMonthly analyzes every farm for one (year, month) and returns one
// result per farm, in the input order.
func (s *BatchService) RunMonthly(ctx context.Context, farms []models.Farm, year, month int) []FarmResult {
	start := time.Now()
	s.metrics.BatchRunning.Set(1)
	defer s.metrics.BatchRunning.Set(0)
	s.metrics.BatchSize.Observe(float64(len(farms)))

	s.logger.Info("monthly batch starting", "farms", len(farms), "year", year, "month", month)

	results := make([]FarmResult, len(farms))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range farms {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.analyzeOne(ctx, &farms[i], year, month)
		}(i)
	}
	wg.Wait()

	succeeded, skipped, failed := 0, 0, 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Skipped:
			skipped++
		default:
			succeeded++
		}
	}

	s.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("monthly batch finished",
		"succeeded", succeeded,
		"skipped", skipped,
		"failed", failed,
		"duration", time.Since(start),
	)
	return results
}

// analyzeOne runs the whole pipeline for a single farm. Panics are
// contained here so one bad farm cannot take down the batch.
func (s *BatchService) analyzeOne(ctx context.Context, farm *models.Farm, year, month int) (result FarmResult) {
	result = FarmResult{FarmID: farm.ID, FarmNumber: farm.FarmNumber}
	defer func() {
		if r := recover(); r != nil {
			s.metrics.AnalysisFailures.Inc()
			result.Err = fmt.Errorf("panic analyzing farm %s: %v", farm.FarmNumber, r)
			s.logger.Error("panic recovered in farm analysis", "farm", farm.FarmNumber, "panic", r)
		}
	}()

	reading, err := s.analyzer.AnalyzeFarm(ctx, farm, year, month)
	if errors.Is(err, satellite.ErrNoData) {
		s.metrics.NoDataPeriods.Inc()
		result.Skipped = true
		s.logger.Info("no imagery for period", "farm", farm.FarmNumber, "year", year, "month", month)
		return result
	}
	if err != nil {
		s.metrics.AnalysisFailures.Inc()
		result.Err = fmt.Errorf("farm %s: %w", farm.FarmNumber, err)
		s.logger.Error("farm analysis failed", "farm", farm.FarmNumber, "error", err)
		return result
	}

	if err := s.readings.Upsert(ctx, reading); err != nil {
		s.metrics.AnalysisFailures.Inc()
		result.Err = fmt.Errorf("farm %s: %w", farm.FarmNumber, err)
		return result
	}
	result.Reading = reading

	assessment := s.scorer.Score(reading)
	if err := s.assessments.Upsert(ctx, assessment); err != nil {
		s.metrics.AnalysisFailures.Inc()
		result.Err = fmt.Errorf("farm %s: %w", farm.FarmNumber, err)
		return result
	}
	result.Assessment = assessment

	s.metrics.FarmsAnalyzed.Inc()
	s.metrics.RiskScore.Observe(float64(assessment.RiskScore))

	if !assessment.Triggered {
		return result
	}
	s.metrics.TriggersFired.Inc()

	claim := s.maybeCreateClaim(ctx, farm, reading, assessment)
	result.Claim = claim
	s.publishAlert(ctx, assessment, claim)
	return result
}

// maybeCreateClaim raises a draft claim when the farm has an active
// policy whose triggers produce a nonzero payout for this reading.
func (s *BatchService) maybeCreateClaim(ctx context.Context, farm *models.Farm, reading *models.MonthlyIndexReading, assessment *models.RiskAssessment) *models.InsuranceClaim {
	periodEnd := time.Date(assessment.Year, time.Month(assessment.Month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1)

	policy, err := s.policies.GetActiveByFarm(ctx, farm.ID, periodEnd)
	if err != nil {
		s.logger.Error("policy lookup failed", "farm", farm.FarmNumber, "error", err)
		return nil
	}
	if policy == nil {
		return nil
	}

	payout := risk.CalculatePayout(policy, reading, assessment)
	if !payout.Amount.IsPositive() {
		return nil
	}

	claim := claims.NewFromAssessment(policy, reading, assessment, payout.Amount, payout.Triggers)
	created, err := s.claimStore.CreateFromAssessment(ctx, claim)
	if err != nil {
		s.logger.Error("claim creation failed", "farm", farm.FarmNumber, "policy", policy.PolicyNumber, "error", err)
		return nil
	}
	if !created {
		s.logger.Info("claim already exists for assessment", "farm", farm.FarmNumber, "policy", policy.PolicyNumber)
		return nil
	}

	s.metrics.ClaimsCreated.Inc()
	s.logger.Info("claim created",
		"claim", claim.ClaimNumber,
		"farm", farm.FarmNumber,
		"amount", claim.Amount,
	)
	return claim
}

func (s *BatchService) publishAlert(ctx context.Context, assessment *models.RiskAssessment, claim *models.InsuranceClaim) {
	alert := event.DroughtAlertEvent{
		FarmID:         assessment.FarmID,
		AssessmentID:   assessment.ID,
		Year:           assessment.Year,
		Month:          assessment.Month,
		RiskScore:      assessment.RiskScore,
		RiskCategory:   string(assessment.RiskCategory),
		TriggerReasons: assessment.TriggerReasons,
		OccurredAt:     time.Now().UTC(),
	}
	if claim != nil {
		alert.ClaimNumber = claim.ClaimNumber
	}

	if err := s.alerts.PublishAlert(ctx, alert); err != nil {
		// Alerting is best effort; the assessment is already persisted.
		s.logger.Error("failed to publish drought alert", "farm_id", assessment.FarmID, "error", err)
	}
}
