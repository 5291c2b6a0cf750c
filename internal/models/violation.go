package models

import "time"

// HPDViolation is a housing-maintenance-code violation issued by HPD.
// Violations are immutable facts once ingested; BBL joins them to buildings
// without a foreign key because ingestion order varies.
type HPDViolation struct {
	ViolationID           int        `json:"violationId"`
	BBL                   *string    `json:"bbl,omitempty"`
	BuildingID            *int       `json:"buildingId,omitempty"`
	RegistrationID        *int       `json:"registrationId,omitempty"`
	Apartment             *string    `json:"apartment,omitempty"`
	Story                 *string    `json:"story,omitempty"`
	InspectionDate        *time.Time `json:"inspectionDate,omitempty"`
	ApprovedDate          *time.Time `json:"approvedDate,omitempty"`
	CertifiedDate         *time.Time `json:"certifiedDate,omitempty"`
	OrderNumber           *string    `json:"orderNumber,omitempty"`
	NOVID                 *int       `json:"novId,omitempty"`
	NOVDescription        *string    `json:"novDescription,omitempty"`
	NOVIssuedDate         *time.Time `json:"novIssuedDate,omitempty"`
	NOVType               *string    `json:"novType,omitempty"`
	CurrentStatus         *string    `json:"currentStatus,omitempty"`
	CurrentStatusDate     *time.Time `json:"currentStatusDate,omitempty"`
	ViolationStatus       *string    `json:"violationStatus,omitempty"`
	ViolationClass        *string    `json:"violationClass,omitempty"`
	OriginalCertifyByDate *time.Time `json:"originalCertifyByDate,omitempty"`
	OriginalCorrectByDate *time.Time `json:"originalCorrectByDate,omitempty"`
	NewCertifyByDate      *time.Time `json:"newCertifyByDate,omitempty"`
	NewCorrectByDate      *time.Time `json:"newCorrectByDate,omitempty"`
}

// DOBViolation is a Department of Buildings violation, keyed by the DOB BIS
// internal serial number.
type DOBViolation struct {
	ISNDOBBisViol       string     `json:"isnDobBisViol"`
	BBL                 *string    `json:"bbl,omitempty"`
	BIN                 *string    `json:"bin,omitempty"`
	Boro                *string    `json:"boro,omitempty"`
	Block               *string    `json:"block,omitempty"`
	Lot                 *string    `json:"lot,omitempty"`
	IssueDate           *time.Time `json:"issueDate,omitempty"`
	ViolationTypeCode   *string    `json:"violationTypeCode,omitempty"`
	ViolationNumber     *string    `json:"violationNumber,omitempty"`
	HouseNumber         *string    `json:"houseNumber,omitempty"`
	Street              *string    `json:"street,omitempty"`
	DispositionDate     *time.Time `json:"dispositionDate,omitempty"`
	DispositionComments *string    `json:"dispositionComments,omitempty"`
	DeviceNumber        *string    `json:"deviceNumber,omitempty"`
	Description         *string    `json:"description,omitempty"`
	ECBNumber           *string    `json:"ecbNumber,omitempty"`
	Number              *string    `json:"number,omitempty"`
	ViolationCategory   *string    `json:"violationCategory,omitempty"`
	ViolationType       *string    `json:"violationType,omitempty"`
}
