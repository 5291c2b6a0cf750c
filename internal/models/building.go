package models

import "time"

// Building represents a residential building keyed by its BBL
// (borough-block-lot tax parcel identifier). Buildings are created from HPD
// registration data and enriched with PLUTO parcel data; they are never
// deleted. All nullable columns use pointers to distinguish zero values from
// NULL.
type Building struct {
	BBL              string     `json:"bbl"`
	Borough          *string    `json:"borough,omitempty"`
	Block            *int       `json:"block,omitempty"`
	Lot              *int       `json:"lot,omitempty"`
	HouseNumber      *string    `json:"houseNumber,omitempty"`
	StreetName       *string    `json:"streetName,omitempty"`
	FullAddress      *string    `json:"fullAddress,omitempty"`
	ZipCode          *string    `json:"zipCode,omitempty"`
	ResidentialUnits *int       `json:"residentialUnits,omitempty"`
	TotalUnits       *int       `json:"totalUnits,omitempty"`
	YearBuilt        *int       `json:"yearBuilt,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
