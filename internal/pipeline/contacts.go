package pipeline

import (
	"strings"

	"github.com/nycwatch/landlordwatch/internal/resolution"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// contactsStrategy loads HPD registration contacts and computes the derived
// identity-resolution fields (normalized name, normalized address,
// fingerprint) at transform time so resolution runs never re-parse raw text.
//
// The natural key (registration_id, contact_type, full_name) collapses the
// frequent duplicate contact rows in the source data; the last transform
// wins.
type contactsStrategy struct {
	datasetID string
}

func (s *contactsStrategy) Name() string      { return "registration_contacts" }
func (s *contactsStrategy) DatasetID() string { return s.datasetID }
func (s *contactsStrategy) Table() string     { return "registration_contacts" }

func (s *contactsStrategy) KeyColumns() []string {
	return []string{"registration_id", "contact_type", "full_name"}
}

func (s *contactsStrategy) Columns() []string {
	return []string{
		"registration_id", "contact_type", "contact_description",
		"corporation_name", "first_name", "middle_initial", "last_name",
		"full_name", "business_address", "business_city", "business_state",
		"business_zip", "normalized_name", "normalized_address", "name_hash",
	}
}

func (s *contactsStrategy) Query() socrata.Query { return socrata.Query{} }

func (s *contactsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	registrationID := rec.Int("registrationid")
	if registrationID == nil {
		return nil, nil
	}

	firstName := rec.Str("firstname")
	middleInitial := rec.Str("middleinitial")
	lastName := rec.Str("lastname")
	corpName := rec.Str("corporationname")

	fullName := corpName
	if fullName == "" {
		parts := make([]string, 0, 3)
		for _, p := range []string{firstName, middleInitial, lastName} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		fullName = strings.Join(parts, " ")
	}
	if fullName == "" {
		return nil, nil
	}

	businessAddress := buildBusinessAddress(rec)

	normalizedName := resolution.NormalizeName(fullName)
	normalizedAddress := resolution.NormalizeAddress(businessAddress)
	nameHash := resolution.Fingerprint(normalizedName, normalizedAddress)

	return Row{
		"registration_id":     *registrationID,
		"contact_type":        rec.Str("type"),
		"contact_description": strOrNil(rec.Str("contactdescription")),
		"corporation_name":    strOrNil(corpName),
		"first_name":          strOrNil(firstName),
		"middle_initial":      strOrNil(middleInitial),
		"last_name":           strOrNil(lastName),
		"full_name":           fullName,
		"business_address":    strOrNil(businessAddress),
		"business_city":       strOrNil(rec.Str("businesscity")),
		"business_state":      strOrNil(rec.Str("businessstate")),
		"business_zip":        strOrNil(rec.Str("businesszip")),
		"normalized_name":     normalizedName,
		"normalized_address":  normalizedAddress,
		"name_hash":           nameHash,
	}, nil
}

// buildBusinessAddress joins the contact's mailing-address components.
func buildBusinessAddress(rec socrata.RawRecord) string {
	parts := make([]string, 0, 6)
	for _, field := range []string{
		"businesshousenumber", "businessstreetname", "businessapartment",
		"businesscity", "businessstate", "businesszip",
	} {
		if v := rec.Str(field); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
