package models

import "time"

// BuildingScore holds the computed risk score for one building. Scores are
// fully recomputed on each scoring run; one row per BBL.
type BuildingScore struct {
	BBL string `json:"bbl"`

	// Component scores, each 0-100, higher is worse.
	ViolationScore  float64 `json:"violationScore"`
	ComplaintsScore float64 `json:"complaintsScore"`
	EvictionScore   float64 `json:"evictionScore"`
	OwnershipScore  float64 `json:"ownershipScore"`
	ResolutionScore float64 `json:"resolutionScore"`

	OverallScore float64 `json:"overallScore"`
	Grade        string  `json:"grade"`

	// Raw counts for display.
	TotalViolations  int      `json:"totalViolations"`
	ClassCViolations int      `json:"classCViolations"`
	ClassBViolations int      `json:"classBViolations"`
	ClassAViolations int      `json:"classAViolations"`
	OpenViolations   int      `json:"openViolations"`
	TotalComplaints  int      `json:"totalComplaints"`
	TotalEvictions   int      `json:"totalEvictions"`
	AvgResolutionDays *float64 `json:"avgResolutionDays,omitempty"`

	// Per-unit ratios.
	ViolationsPerUnit float64 `json:"violationsPerUnit"`
	ComplaintsPerUnit float64 `json:"complaintsPerUnit"`
	EvictionsPerUnit  float64 `json:"evictionsPerUnit"`

	// Percentile ranks, 0-100, ties share a value.
	PercentileCity    *float64 `json:"percentileCity,omitempty"`
	PercentileBorough *float64 `json:"percentileBorough,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
