// Package features turns rainfall time series into the statistical
// feature vectors consumed by zone clustering and risk scoring.
package features

import (
	"math"
	"sort"
	"strconv"
)

// Record is one monthly rainfall observation for a location.
type Record struct {
	Year       int     `csv:"year"`
	Month      int     `csv:"month"`
	RainfallMM float64 `csv:"rainfall_mm"`
}

// Vector maps feature names to values. Every extraction over a non-empty
// series produces the full feature set, with unavailable aggregates
// filled with zero.
type Vector map[string]float64

var quarterNames = [4]string{"Q1", "Q2", "Q3", "Q4"}

// seasonOf buckets a calendar month into its meteorological season.
func seasonOf(month int) string {
	switch month {
	case 12, 1, 2:
		return "DJF"
	case 3, 4, 5:
		return "MAM"
	case 6, 7, 8:
		return "JJA"
	default:
		return "SON"
	}
}

// Extract computes the full feature vector for one location's series.
// Records are processed in chronological order so dry spell runs span
// consecutive months. An empty series yields an all-zero vector.
func Extract(records []Record) Vector {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Month < sorted[j].Month
	})

	v := Vector{}
	addBasicStats(v, sorted)
	addRainyDayStats(v, sorted)
	addDrySpellStats(v, sorted)
	addMonthlyStats(v, sorted)
	addPeriodStats(v, sorted)
	return v
}

func addBasicStats(v Vector, records []Record) {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.RainfallMM
	}

	v["total_rainfall"] = sum(values)
	v["mean_rainfall"] = mean(values)
	v["median_rainfall"] = median(values)
	v["std_rainfall"] = stddev(values)
	if v["mean_rainfall"] > 0 {
		v["cv_rainfall"] = v["std_rainfall"] / v["mean_rainfall"]
	} else {
		v["cv_rainfall"] = 0
	}
}

func addRainyDayStats(v Vector, records []Record) {
	var rainy []float64
	for _, r := range records {
		if r.RainfallMM > 0 {
			rainy = append(rainy, r.RainfallMM)
		}
	}

	v["rainy_days_count"] = float64(len(rainy))
	if len(records) > 0 {
		v["rainy_days_percent"] = float64(len(rainy)) / float64(len(records)) * 100
	} else {
		v["rainy_days_percent"] = 0
	}
	v["mean_rainy_day_intensity"] = mean(rainy)
}

// addDrySpellStats scans for runs of consecutive zero-rainfall periods.
func addDrySpellStats(v Vector, records []Record) {
	var spells []float64
	current := 0.0
	for _, r := range records {
		if r.RainfallMM == 0 {
			current++
			continue
		}
		if current > 0 {
			spells = append(spells, current)
		}
		current = 0
	}
	if current > 0 {
		spells = append(spells, current)
	}

	v["max_dry_spell"] = maxOf(spells)
	v["avg_dry_spell"] = mean(spells)
	if len(records) > 0 {
		v["dry_spell_frequency"] = float64(len(spells)) / float64(len(records))
	} else {
		v["dry_spell_frequency"] = 0
	}
}

func addMonthlyStats(v Vector, records []Record) {
	byMonth := make(map[int][]float64, 12)
	for _, r := range records {
		byMonth[r.Month] = append(byMonth[r.Month], r.RainfallMM)
	}
	for m := 1; m <= 12; m++ {
		key := monthKey(m)
		v[key+"_mean"] = mean(byMonth[m])
		v[key+"_std"] = stddev(byMonth[m])
	}
}

func addPeriodStats(v Vector, records []Record) {
	byQuarter := make(map[string][]float64, 4)
	bySeason := make(map[string][]float64, 4)
	for _, r := range records {
		q := quarterNames[(r.Month-1)/3]
		byQuarter[q] = append(byQuarter[q], r.RainfallMM)
		s := seasonOf(r.Month)
		bySeason[s] = append(bySeason[s], r.RainfallMM)
	}

	for _, q := range quarterNames {
		v["quarter_"+q+"_mean"] = mean(byQuarter[q])
		v["quarter_"+q+"_sum"] = sum(byQuarter[q])
	}
	for _, s := range []string{"DJF", "MAM", "JJA", "SON"} {
		v["season_"+s+"_mean"] = mean(bySeason[s])
		v["season_"+s+"_sum"] = sum(bySeason[s])
	}
}

// FromMonthlySeries wraps one calendar year of monthly totals as records
// so a single extraction path serves both training and inference.
func FromMonthlySeries(values [12]float64) []Record {
	records := make([]Record, 12)
	for i, mm := range values {
		records[i] = Record{Month: i + 1, RainfallMM: mm}
	}
	return records
}

func monthKey(m int) string {
	return "month_" + strconv.Itoa(m)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, x := range values {
		total += x
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the population standard deviation, matching how the
// inference path has always computed spread over a fixed 12-month year.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, x := range values {
		d := x - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

func maxOf(values []float64) float64 {
	best := 0.0
	for _, x := range values {
		if x > best {
			best = x
		}
	}
	return best
}
