package models

import "time"

// Eviction is a marshal-executed eviction filing, keyed by the housing court
// index number.
type Eviction struct {
	CourtIndexNumber       string     `json:"courtIndexNumber"`
	DocketNumber           *string    `json:"docketNumber,omitempty"`
	BBL                    *string    `json:"bbl,omitempty"`
	EvictionAddress        *string    `json:"evictionAddress,omitempty"`
	AptSeal                *string    `json:"aptSeal,omitempty"`
	ExecutedDate           *time.Time `json:"executedDate,omitempty"`
	MarshalFirstName       *string    `json:"marshalFirstName,omitempty"`
	MarshalLastName        *string    `json:"marshalLastName,omitempty"`
	ResidentialCommercial  *string    `json:"residentialCommercial,omitempty"`
	Borough                *string    `json:"borough,omitempty"`
	Ejectment              *string    `json:"ejectment,omitempty"`
	EvictionZip            *string    `json:"evictionZip,omitempty"`
	ScheduledStatus        *string    `json:"scheduledStatus,omitempty"`
	Latitude               *float64   `json:"latitude,omitempty"`
	Longitude              *float64   `json:"longitude,omitempty"`
}
