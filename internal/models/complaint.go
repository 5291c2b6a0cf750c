package models

import "time"

// Complaint is a housing-related 311 service request. DaysToResolve is derived
// from the created/closed dates at transform time and feeds the resolution
// score.
type Complaint struct {
	UniqueKey                   int        `json:"uniqueKey"`
	BBL                         *string    `json:"bbl,omitempty"`
	CreatedDate                 *time.Time `json:"createdDate,omitempty"`
	ClosedDate                  *time.Time `json:"closedDate,omitempty"`
	Agency                      *string    `json:"agency,omitempty"`
	AgencyName                  *string    `json:"agencyName,omitempty"`
	ComplaintType               *string    `json:"complaintType,omitempty"`
	Descriptor                  *string    `json:"descriptor,omitempty"`
	LocationType                *string    `json:"locationType,omitempty"`
	IncidentZip                 *string    `json:"incidentZip,omitempty"`
	IncidentAddress             *string    `json:"incidentAddress,omitempty"`
	StreetName                  *string    `json:"streetName,omitempty"`
	City                        *string    `json:"city,omitempty"`
	Status                      *string    `json:"status,omitempty"`
	ResolutionDescription       *string    `json:"resolutionDescription,omitempty"`
	ResolutionActionUpdatedDate *time.Time `json:"resolutionActionUpdatedDate,omitempty"`
	Borough                     *string    `json:"borough,omitempty"`
	Latitude                    *float64   `json:"latitude,omitempty"`
	Longitude                   *float64   `json:"longitude,omitempty"`
	DaysToResolve               *int       `json:"daysToResolve,omitempty"`
}
