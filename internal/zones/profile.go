package zones

import (
	"fmt"

	"drought-service/internal/features"
	"drought-service/internal/models"
)

// Profile describes one rainfall zone as derived at training time. It is
// immutable after training; predictions only look values up from it.
type Profile struct {
	ZoneName          string                       `json:"zone_name"`
	ZoneType          models.ZoneType              `json:"zone_type"`
	Size              int                          `json:"size"`
	AvgTotalRainfall  float64                      `json:"avg_total_rainfall"`
	AvgRainyDays      float64                      `json:"avg_rainy_days"`
	AvgMaxDrySpell    float64                      `json:"avg_max_dry_spell"`
	TypicalMonths     map[int]models.MonthPattern  `json:"typical_months"`
	DroughtRisk       models.DroughtRisk           `json:"drought_risk"`
	RiskPoints        int                          `json:"risk_points"`
	PremiumMultiplier float64                      `json:"premium_multiplier"`
}

// buildProfile derives a zone profile from its member feature vectors.
func buildProfile(zoneID int, members []features.Vector) Profile {
	p := Profile{
		ZoneName:         fmt.Sprintf("Zone_%d", zoneID+1),
		Size:             len(members),
		AvgTotalRainfall: memberAvg(members, "total_rainfall"),
		AvgRainyDays:     memberAvg(members, "rainy_days_percent"),
		AvgMaxDrySpell:   memberAvg(members, "max_dry_spell"),
		TypicalMonths:    typicalMonths(members),
	}

	p.ZoneType = classifyZoneType(p)
	p.RiskPoints, p.DroughtRisk = droughtRisk(
		p.AvgTotalRainfall,
		memberAvg(members, "cv_rainfall"),
		p.AvgMaxDrySpell,
		p.AvgRainyDays,
	)
	p.PremiumMultiplier = premiumMultiplier(p.DroughtRisk)
	return p
}

// typicalMonths labels each calendar month Wet, Dry or Normal by
// comparing the zone's mean for that month against the zone's own
// overall monthly mean. The comparison is within the zone, not across
// zones.
func typicalMonths(members []features.Vector) map[int]models.MonthPattern {
	monthMeans := make([]float64, 12)
	overall := 0.0
	for m := 1; m <= 12; m++ {
		monthMeans[m-1] = memberAvg(members, fmt.Sprintf("month_%d_mean", m))
		overall += monthMeans[m-1]
	}
	overall /= 12

	typical := make(map[int]models.MonthPattern, 12)
	for m := 1; m <= 12; m++ {
		avg := monthMeans[m-1]
		switch {
		case avg > overall*1.2:
			typical[m] = models.MonthWet
		case avg < overall*0.8:
			typical[m] = models.MonthDry
		default:
			typical[m] = models.MonthNormal
		}
	}
	return typical
}

func classifyZoneType(p Profile) models.ZoneType {
	switch {
	case p.AvgTotalRainfall > 10000:
		return models.ZoneHighRainfall
	case p.AvgTotalRainfall > 5000:
		if p.AvgRainyDays > 50 {
			return models.ZoneModerateFrequent
		}
		return models.ZoneModerateSeasonal
	case p.AvgTotalRainfall > 1000:
		if p.AvgMaxDrySpell > 200 {
			return models.ZoneLowDroughtProne
		}
		return models.ZoneLowStable
	default:
		return models.ZoneArid
	}
}

// droughtRisk scores a zone's drought exposure from its average rainfall
// characteristics. Each factor contributes up to 2 points.
func droughtRisk(totalRainfall, cv, maxDrySpell, rainyDaysPercent float64) (int, models.DroughtRisk) {
	points := 0

	switch {
	case totalRainfall < 1000:
		points += 2
	case totalRainfall < 5000:
		points++
	}

	switch {
	case cv > 1.5:
		points += 2
	case cv > 1.0:
		points++
	}

	switch {
	case maxDrySpell > 250:
		points += 2
	case maxDrySpell > 150:
		points++
	}

	switch {
	case rainyDaysPercent < 10:
		points += 2
	case rainyDaysPercent < 20:
		points++
	}

	switch {
	case points >= 7:
		return points, models.DroughtRiskVeryHigh
	case points >= 5:
		return points, models.DroughtRiskHigh
	case points >= 3:
		return points, models.DroughtRiskModerate
	default:
		return points, models.DroughtRiskLow
	}
}

func premiumMultiplier(risk models.DroughtRisk) float64 {
	switch risk {
	case models.DroughtRiskVeryHigh:
		return 1.5
	case models.DroughtRiskHigh:
		return 1.3
	case models.DroughtRiskModerate:
		return 1.15
	default:
		return 1.0
	}
}

func memberAvg(members []features.Vector, name string) float64 {
	if len(members) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range members {
		total += v[name]
	}
	return total / float64(len(members))
}
