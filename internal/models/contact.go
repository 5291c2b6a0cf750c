package models

// Contact is a named party (individual or corporation) attached to a
// registration with a role such as Owner, Agent or Officer. The natural key is
// (registration_id, contact_type, full_name). NormalizedName,
// NormalizedAddress and NameHash are derived at transform time and drive
// identity resolution.
type Contact struct {
	ID                 int64   `json:"id"`
	RegistrationID     int     `json:"registrationId"`
	ContactType        *string `json:"contactType,omitempty"`
	ContactDescription *string `json:"contactDescription,omitempty"`
	CorporationName    *string `json:"corporationName,omitempty"`
	FirstName          *string `json:"firstName,omitempty"`
	MiddleInitial      *string `json:"middleInitial,omitempty"`
	LastName           *string `json:"lastName,omitempty"`
	FullName           string  `json:"fullName"`
	BusinessAddress    *string `json:"businessAddress,omitempty"`
	BusinessCity       *string `json:"businessCity,omitempty"`
	BusinessState      *string `json:"businessState,omitempty"`
	BusinessZip        *string `json:"businessZip,omitempty"`
	NormalizedName     string  `json:"normalizedName"`
	NormalizedAddress  string  `json:"normalizedAddress"`
	NameHash           string  `json:"nameHash"`
	OwnerPortfolioID   *int64  `json:"ownerPortfolioId,omitempty"`
}
