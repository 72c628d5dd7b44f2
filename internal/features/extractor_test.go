package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func yearOfRecords(values [12]float64) []Record {
	records := make([]Record, 12)
	for i, mm := range values {
		records[i] = Record{Year: 2024, Month: i + 1, RainfallMM: mm}
	}
	return records
}

// ============================================================================
// TEST SUITE 1: BASIC STATISTICS
// ============================================================================

func TestExtract_BasicStats(t *testing.T) {
	records := []Record{
		{Year: 2024, Month: 1, RainfallMM: 10},
		{Year: 2024, Month: 2, RainfallMM: 0},
		{Year: 2024, Month: 3, RainfallMM: 0},
		{Year: 2024, Month: 4, RainfallMM: 30},
	}

	v := Extract(records)

	assert.Equal(t, 40.0, v["total_rainfall"])
	assert.Equal(t, 10.0, v["mean_rainfall"])
	assert.Equal(t, 5.0, v["median_rainfall"], "median of 0,0,10,30 is 5")
	assert.InDelta(t, math.Sqrt(150), v["std_rainfall"], 1e-9)
	assert.InDelta(t, math.Sqrt(150)/10, v["cv_rainfall"], 1e-9)
}

func TestExtract_RainyDayStats(t *testing.T) {
	records := []Record{
		{Year: 2024, Month: 1, RainfallMM: 10},
		{Year: 2024, Month: 2, RainfallMM: 0},
		{Year: 2024, Month: 3, RainfallMM: 0},
		{Year: 2024, Month: 4, RainfallMM: 30},
	}

	v := Extract(records)

	assert.Equal(t, 2.0, v["rainy_days_count"])
	assert.Equal(t, 50.0, v["rainy_days_percent"])
	assert.Equal(t, 20.0, v["mean_rainy_day_intensity"], "mean over rainy months only")
}

func TestExtract_EmptySeries(t *testing.T) {
	v := Extract(nil)

	assert.Equal(t, 0.0, v["total_rainfall"])
	assert.Equal(t, 0.0, v["mean_rainfall"])
	assert.Equal(t, 0.0, v["cv_rainfall"])
	assert.Equal(t, 0.0, v["rainy_days_percent"])
	assert.Equal(t, 0.0, v["max_dry_spell"])
	assert.Equal(t, 0.0, v["month_6_mean"])
}

// ============================================================================
// TEST SUITE 2: DRY SPELLS
// ============================================================================

func TestExtract_AllZeroSeries(t *testing.T) {
	v := Extract(yearOfRecords([12]float64{}))

	assert.Equal(t, 0.0, v["total_rainfall"])
	assert.Equal(t, 0.0, v["rainy_days_percent"])
	assert.Equal(t, 12.0, v["max_dry_spell"], "one unbroken run spanning the series")
	assert.Equal(t, 0.0, v["cv_rainfall"], "cv defined as 0 when mean is 0")
}

func TestExtract_NoZeroSeries(t *testing.T) {
	v := Extract(yearOfRecords([12]float64{50, 40, 60, 80, 100, 20, 10, 5, 15, 40, 120, 90}))

	assert.Equal(t, 0.0, v["max_dry_spell"])
	assert.Equal(t, 0.0, v["avg_dry_spell"])
	assert.Equal(t, 0.0, v["dry_spell_frequency"])
	assert.Equal(t, 100.0, v["rainy_days_percent"])
}

func TestExtract_DrySpellRuns(t *testing.T) {
	// Two runs: months 2-3 and month 6.
	v := Extract(yearOfRecords([12]float64{10, 0, 0, 30, 5, 0, 8, 12, 9, 11, 14, 7}))

	assert.Equal(t, 2.0, v["max_dry_spell"])
	assert.Equal(t, 1.5, v["avg_dry_spell"])
	assert.InDelta(t, 2.0/12.0, v["dry_spell_frequency"], 1e-9)
}

func TestExtract_DrySpellUsesChronologicalOrder(t *testing.T) {
	// Same months delivered out of order still form one run of 3.
	records := []Record{
		{Year: 2024, Month: 4, RainfallMM: 0},
		{Year: 2024, Month: 1, RainfallMM: 10},
		{Year: 2024, Month: 3, RainfallMM: 0},
		{Year: 2024, Month: 5, RainfallMM: 25},
		{Year: 2024, Month: 2, RainfallMM: 0},
	}

	v := Extract(records)

	assert.Equal(t, 3.0, v["max_dry_spell"])
	assert.InDelta(t, 1.0/5.0, v["dry_spell_frequency"], 1e-9)
}

// ============================================================================
// TEST SUITE 3: CALENDAR AGGREGATES
// ============================================================================

func TestExtract_MonthlyMeansAcrossYears(t *testing.T) {
	records := []Record{
		{Year: 2023, Month: 6, RainfallMM: 10},
		{Year: 2024, Month: 6, RainfallMM: 30},
		{Year: 2024, Month: 7, RainfallMM: 50},
	}

	v := Extract(records)

	assert.Equal(t, 20.0, v["month_6_mean"])
	assert.Equal(t, 10.0, v["month_6_std"], "population std of 10,30")
	assert.Equal(t, 50.0, v["month_7_mean"])
	assert.Equal(t, 0.0, v["month_7_std"], "single observation has zero spread")
	assert.Equal(t, 0.0, v["month_1_mean"], "months without data fill to 0")
}

func TestExtract_QuarterAndSeasonAggregates(t *testing.T) {
	v := Extract(yearOfRecords([12]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}))

	assert.Equal(t, 20.0, v["quarter_Q1_mean"])
	assert.Equal(t, 60.0, v["quarter_Q1_sum"])
	assert.Equal(t, 110.0, v["quarter_Q4_mean"])
	assert.Equal(t, 330.0, v["quarter_Q4_sum"])

	// DJF = Dec, Jan, Feb.
	assert.Equal(t, 50.0, v["season_DJF_mean"])
	assert.Equal(t, 150.0, v["season_DJF_sum"])
	assert.Equal(t, 70.0, v["season_JJA_mean"])
	assert.Equal(t, 300.0, v["season_SON_sum"])
}

// ============================================================================
// TEST SUITE 4: PURITY
// ============================================================================

func TestExtract_Deterministic(t *testing.T) {
	records := yearOfRecords([12]float64{50, 0, 60, 80, 0, 20, 10, 5, 15, 40, 120, 90})

	first := Extract(records)
	second := Extract(records)

	assert.Equal(t, first, second, "extraction is a pure function")
}

func TestFromMonthlySeries(t *testing.T) {
	records := FromMonthlySeries([12]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	assert.Len(t, records, 12)
	assert.Equal(t, 1, records[0].Month)
	assert.Equal(t, 12.0, records[11].RainfallMM)
}
