package models

import "time"

// Registration is an HPD owner-registration filing for a building. One
// building accumulates many registrations over time; the source-assigned
// registration ID is the natural key.
type Registration struct {
	RegistrationID       int        `json:"registrationId"`
	BBL                  string     `json:"bbl"`
	BuildingID           *int       `json:"buildingId,omitempty"`
	BIN                  *string    `json:"bin,omitempty"`
	HouseNumber          *string    `json:"houseNumber,omitempty"`
	StreetName           *string    `json:"streetName,omitempty"`
	Borough              *string    `json:"borough,omitempty"`
	ZipCode              *string    `json:"zipCode,omitempty"`
	Block                *int       `json:"block,omitempty"`
	Lot                  *int       `json:"lot,omitempty"`
	LastRegistrationDate *time.Time `json:"lastRegistrationDate,omitempty"`
	RegistrationEndDate  *time.Time `json:"registrationEndDate,omitempty"`
}
