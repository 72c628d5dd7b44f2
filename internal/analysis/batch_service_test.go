package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"drought-service/internal/event"
	"drought-service/internal/models"
	"drought-service/internal/observability"
	"drought-service/internal/risk"
	"drought-service/internal/satellite"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// IN-MEMORY FAKES
// ============================================================================

func ptr(v float64) *float64 { return &v }

// fakeAnalyzer routes each farm to a canned behavior by farm number.
type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeFarm(_ context.Context, farm *models.Farm, year, month int) (*models.MonthlyIndexReading, error) {
	switch farm.FarmNumber {
	case "FARM-NODATA":
		return nil, satellite.ErrNoData
	case "FARM-BROKEN":
		return nil, errors.New("provider returned HTTP 500")
	case "FARM-PANIC":
		panic("corrupt imagery tile")
	case "FARM-DRY":
		return &models.MonthlyIndexReading{
			ID:         uuid.New(),
			FarmID:     farm.ID,
			Year:       year,
			Month:      month,
			NDVI:       ptr(0.15),
			NDMI:       ptr(-0.1),
			BSI:        ptr(0.4),
			RainfallMM: ptr(20.0),
			ImageCount: 3,
		}, nil
	default:
		return &models.MonthlyIndexReading{
			ID:         uuid.New(),
			FarmID:     farm.ID,
			Year:       year,
			Month:      month,
			NDVI:       ptr(0.78),
			NDMI:       ptr(0.45),
			BSI:        ptr(0.05),
			RainfallMM: ptr(132.0),
			ImageCount: 4,
		}, nil
	}
}

type periodKey struct {
	farmID uuid.UUID
	year   int
	month  int
}

// fakeReadingStore and fakeAssessmentStore mimic the upsert contract of
// the sqlx repositories: the first write for a (farm, year, month) wins
// the row id and later writes are rewritten onto it.
type fakeReadingStore struct {
	mu   sync.Mutex
	rows map[periodKey]*models.MonthlyIndexReading
}

func (s *fakeReadingStore) Upsert(_ context.Context, reading *models.MonthlyIndexReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows == nil {
		s.rows = make(map[periodKey]*models.MonthlyIndexReading)
	}
	key := periodKey{reading.FarmID, reading.Year, reading.Month}
	if existing, ok := s.rows[key]; ok {
		reading.ID = existing.ID
	}
	s.rows[key] = reading
	return nil
}

type fakeAssessmentStore struct {
	mu   sync.Mutex
	rows map[periodKey]*models.RiskAssessment
}

func (s *fakeAssessmentStore) Upsert(_ context.Context, assessment *models.RiskAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows == nil {
		s.rows = make(map[periodKey]*models.RiskAssessment)
	}
	key := periodKey{assessment.FarmID, assessment.Year, assessment.Month}
	if existing, ok := s.rows[key]; ok {
		assessment.ID = existing.ID
	}
	s.rows[key] = assessment
	return nil
}

// fakePolicyStore hands out one active policy for a single farm.
type fakePolicyStore struct {
	coveredFarm uuid.UUID
	policy      *models.InsurancePolicy
}

func (s *fakePolicyStore) GetActiveByFarm(_ context.Context, farmID uuid.UUID, _ time.Time) (*models.InsurancePolicy, error) {
	if farmID == s.coveredFarm {
		return s.policy, nil
	}
	return nil, nil
}

// fakeClaimStore enforces one claim per (policy, assessment) like the
// partial unique index does.
type fakeClaimStore struct {
	mu     sync.Mutex
	claims map[string]*models.InsuranceClaim
}

func (s *fakeClaimStore) CreateFromAssessment(_ context.Context, claim *models.InsuranceClaim) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims == nil {
		s.claims = make(map[string]*models.InsuranceClaim)
	}
	key := fmt.Sprintf("%s/%s", claim.PolicyID, claim.AssessmentID)
	if _, ok := s.claims[key]; ok {
		return false, nil
	}
	claim.ClaimNumber = fmt.Sprintf("CLM-TEST-%04d", len(s.claims)+1)
	s.claims[key] = claim
	return true, nil
}

type fakeAlertPublisher struct {
	mu     sync.Mutex
	alerts []event.DroughtAlertEvent
}

func (p *fakeAlertPublisher) PublishAlert(_ context.Context, alert event.DroughtAlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return nil
}

// ============================================================================
// TEST FIXTURE
// ============================================================================

type batchFixture struct {
	service     *BatchService
	farms       []models.Farm
	dryFarm     models.Farm
	claimStore  *fakeClaimStore
	alerts      *fakeAlertPublisher
	assessments *fakeAssessmentStore
}

func newBatchFixture(t *testing.T) *batchFixture {
	t.Helper()

	dryFarm := models.Farm{ID: uuid.New(), FarmNumber: "FARM-DRY"}
	farms := []models.Farm{
		{ID: uuid.New(), FarmNumber: "FARM-OK"},
		dryFarm,
		{ID: uuid.New(), FarmNumber: "FARM-NODATA"},
		{ID: uuid.New(), FarmNumber: "FARM-BROKEN"},
		{ID: uuid.New(), FarmNumber: "FARM-PANIC"},
	}

	policy := &models.InsurancePolicy{
		ID:                uuid.New(),
		PolicyNumber:      "POL-TEST-0001",
		FarmID:            dryFarm.ID,
		Status:            models.PolicyActive,
		SumInsured:        decimal.NewFromInt(100000),
		MaxPayout:         decimal.NewFromInt(50000),
		Deductible:        decimal.NewFromInt(1000),
		PayoutRate:        0.7,
		NDVITrigger:       0.3,
		RainfallTriggerMM: 50,
	}

	claimStore := &fakeClaimStore{}
	alerts := &fakeAlertPublisher{}
	assessments := &fakeAssessmentStore{}

	service := NewBatchService(
		fakeAnalyzer{},
		risk.NewScorer(risk.DefaultScorerConfig()),
		&fakeReadingStore{},
		assessments,
		&fakePolicyStore{coveredFarm: dryFarm.ID, policy: policy},
		claimStore,
		alerts,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		3,
	)

	return &batchFixture{
		service:     service,
		farms:       farms,
		dryFarm:     dryFarm,
		claimStore:  claimStore,
		alerts:      alerts,
		assessments: assessments,
	}
}

func resultFor(t *testing.T, results []FarmResult, farmNumber string) FarmResult {
	t.Helper()
	for _, res := range results {
		if res.FarmNumber == farmNumber {
			return res
		}
	}
	t.Fatalf("no result for farm %s", farmNumber)
	return FarmResult{}
}

// ============================================================================
// TEST SUITE 1: FAILURE ISOLATION
// ============================================================================

func TestRunMonthly_OneResultPerFarmInInputOrder(t *testing.T) {
	fx := newBatchFixture(t)

	results := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	require.Len(t, results, len(fx.farms))
	for i, res := range results {
		assert.Equal(t, fx.farms[i].ID, res.FarmID)
		assert.Equal(t, fx.farms[i].FarmNumber, res.FarmNumber)
	}
}

func TestRunMonthly_FailuresDoNotAbortTheBatch(t *testing.T) {
	fx := newBatchFixture(t)

	results := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	ok := resultFor(t, results, "FARM-OK")
	assert.NoError(t, ok.Err)
	assert.False(t, ok.Skipped)
	require.NotNil(t, ok.Assessment)
	assert.Equal(t, models.RiskLow, ok.Assessment.RiskCategory)
	assert.Nil(t, ok.Claim)

	noData := resultFor(t, results, "FARM-NODATA")
	assert.True(t, noData.Skipped)
	assert.NoError(t, noData.Err)
	assert.Nil(t, noData.Assessment)

	broken := resultFor(t, results, "FARM-BROKEN")
	require.Error(t, broken.Err)
	assert.Contains(t, broken.Err.Error(), "FARM-BROKEN")
}

func TestRunMonthly_PanicIsContainedToItsFarm(t *testing.T) {
	fx := newBatchFixture(t)

	results := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	panicked := resultFor(t, results, "FARM-PANIC")
	require.Error(t, panicked.Err)
	assert.Contains(t, panicked.Err.Error(), "panic")

	healthy := resultFor(t, results, "FARM-OK")
	assert.NoError(t, healthy.Err)
}

// ============================================================================
// TEST SUITE 2: TRIGGERED FARMS
// ============================================================================

func TestRunMonthly_DistressedFarmGetsAssessmentClaimAndAlert(t *testing.T) {
	fx := newBatchFixture(t)

	results := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	dry := resultFor(t, results, "FARM-DRY")
	require.NoError(t, dry.Err)
	require.NotNil(t, dry.Assessment)
	assert.Equal(t, models.RiskHigh, dry.Assessment.RiskCategory)
	assert.True(t, dry.Assessment.Triggered)

	require.NotNil(t, dry.Claim)
	assert.Equal(t, "29800.00", dry.Claim.Amount.StringFixed(2))
	assert.True(t, dry.Claim.AutoCreated)
	assert.Equal(t, models.ClaimDraft, dry.Claim.Status)

	// The claim snapshots the evidence it was raised on.
	require.NotNil(t, dry.Claim.NDVI)
	assert.InDelta(t, 0.15, *dry.Claim.NDVI, 1e-9)
	require.NotNil(t, dry.Claim.RainfallMM)
	assert.InDelta(t, 20.0, *dry.Claim.RainfallMM, 1e-9)
	assert.Equal(t, models.RiskHigh, dry.Claim.RiskCategory)

	require.Len(t, fx.alerts.alerts, 1)
	alert := fx.alerts.alerts[0]
	assert.Equal(t, fx.dryFarm.ID, alert.FarmID)
	assert.Equal(t, dry.Assessment.ID, alert.AssessmentID)
	assert.Equal(t, dry.Claim.ClaimNumber, alert.ClaimNumber)
	assert.NotEmpty(t, alert.TriggerReasons)
}

func TestRunMonthly_NoClaimWithoutAnActivePolicy(t *testing.T) {
	fx := newBatchFixture(t)
	// One distressed farm, zero policies covering it.
	farms := []models.Farm{{ID: uuid.New(), FarmNumber: "FARM-DRY"}}

	results := fx.service.RunMonthly(context.Background(), farms, 2026, 7)

	dry := resultFor(t, results, "FARM-DRY")
	require.NotNil(t, dry.Assessment)
	assert.True(t, dry.Assessment.Triggered)
	assert.Nil(t, dry.Claim)

	// The alert still goes out for the triggered assessment.
	assert.Len(t, fx.alerts.alerts, 1)
	assert.Empty(t, fx.alerts.alerts[0].ClaimNumber)
}

// ============================================================================
// TEST SUITE 3: RERUN IDEMPOTENCY
// ============================================================================

func TestRunMonthly_RerunDoesNotDuplicateClaims(t *testing.T) {
	fx := newBatchFixture(t)

	first := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)
	second := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	require.NotNil(t, resultFor(t, first, "FARM-DRY").Claim)
	assert.Nil(t, resultFor(t, second, "FARM-DRY").Claim, "second run reuses the existing claim")
	assert.Len(t, fx.claimStore.claims, 1)
}

func TestRunMonthly_RerunKeepsStableAssessmentID(t *testing.T) {
	fx := newBatchFixture(t)

	first := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)
	second := fx.service.RunMonthly(context.Background(), fx.farms, 2026, 7)

	a1 := resultFor(t, first, "FARM-DRY").Assessment
	a2 := resultFor(t, second, "FARM-DRY").Assessment
	require.NotNil(t, a1)
	require.NotNil(t, a2)
	assert.Equal(t, a1.ID, a2.ID, "upsert pins the assessment to the first run's id")
}
