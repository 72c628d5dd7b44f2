package models

type PolicyStatus string

const (
	PolicyPending   PolicyStatus = "pending"
	PolicyActive    PolicyStatus = "active"
	PolicyExpired   PolicyStatus = "expired"
	PolicySuspended PolicyStatus = "suspended"
	PolicyCancelled PolicyStatus = "cancelled"
	PolicyClaimed   PolicyStatus = "claimed"
)

type ClaimStatus string

const (
	ClaimDraft       ClaimStatus = "draft"
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimRejected    ClaimStatus = "rejected"
	ClaimPaid        ClaimStatus = "paid"
	ClaimClosed      ClaimStatus = "closed"
	ClaimCancelled   ClaimStatus = "cancelled"
)

type RiskCategory string

const (
	RiskLow      RiskCategory = "low"
	RiskModerate RiskCategory = "moderate"
	RiskHigh     RiskCategory = "high"
)

type VegetationHealth string

const (
	VegetationExcellent VegetationHealth = "excellent"
	VegetationGood      VegetationHealth = "good"
	VegetationModerate  VegetationHealth = "moderate"
	VegetationPoor      VegetationHealth = "poor"
	VegetationCritical  VegetationHealth = "critical"
)

type MoistureStress string

const (
	MoistureNone     MoistureStress = "none"
	MoistureMild     MoistureStress = "mild"
	MoistureModerate MoistureStress = "moderate"
	MoistureSevere   MoistureStress = "severe"
)

type DroughtRisk string

const (
	DroughtRiskLow      DroughtRisk = "Low"
	DroughtRiskModerate DroughtRisk = "Moderate"
	DroughtRiskHigh     DroughtRisk = "High"
	DroughtRiskVeryHigh DroughtRisk = "Very High"
)

type ZoneType string

const (
	ZoneHighRainfall     ZoneType = "High Rainfall Zone"
	ZoneModerateFrequent ZoneType = "Moderate Rainfall, Frequent Rain"
	ZoneModerateSeasonal ZoneType = "Moderate Rainfall, Seasonal"
	ZoneLowDroughtProne  ZoneType = "Low Rainfall, Drought Prone"
	ZoneLowStable        ZoneType = "Low Rainfall, Stable"
	ZoneArid             ZoneType = "Arid Zone"
)

type MonthPattern string

const (
	MonthWet    MonthPattern = "Wet"
	MonthDry    MonthPattern = "Dry"
	MonthNormal MonthPattern = "Normal"
)
