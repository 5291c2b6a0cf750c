package models

import "time"

// OwnerPortfolio is a resolved identity cluster of registration contacts
// believed to be the same economic owner. The fingerprint (NameHash) is
// unique; aggregate statistics are recomputed set-based after each resolution
// run rather than maintained incrementally.
type OwnerPortfolio struct {
	ID                int64     `json:"id"`
	PrimaryName       string    `json:"primaryName"`
	NormalizedName    string    `json:"normalizedName"`
	NameHash          string    `json:"nameHash"`
	PrimaryAddress    *string   `json:"primaryAddress,omitempty"`
	NormalizedAddress *string   `json:"normalizedAddress,omitempty"`
	TotalBuildings    int       `json:"totalBuildings"`
	TotalUnits        int       `json:"totalUnits"`
	TotalViolations   int       `json:"totalViolations"`
	TotalComplaints   int       `json:"totalComplaints"`
	TotalEvictions    int       `json:"totalEvictions"`
	ClassCViolations  int       `json:"classCViolations"`
	ClassBViolations  int       `json:"classBViolations"`
	ClassAViolations  int       `json:"classAViolations"`
	PortfolioScore    *float64  `json:"portfolioScore,omitempty"`
	PortfolioGrade    *string   `json:"portfolioGrade,omitempty"`
	IsLLC             bool      `json:"isLlc"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
