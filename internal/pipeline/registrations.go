package pipeline

import (
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// registrationsStrategy loads HPD owner-registration filings. Registrations
// that cannot resolve a BBL are skipped: a registration is only useful when
// it can be tied to a building.
type registrationsStrategy struct {
	datasetID string
}

func (s *registrationsStrategy) Name() string      { return "hpd_registrations" }
func (s *registrationsStrategy) DatasetID() string { return s.datasetID }
func (s *registrationsStrategy) Table() string     { return "hpd_registrations" }

func (s *registrationsStrategy) KeyColumns() []string { return []string{"registration_id"} }

func (s *registrationsStrategy) Columns() []string {
	return []string{
		"registration_id", "bbl", "building_id", "bin", "house_number",
		"street_name", "borough", "zip_code", "block", "lot",
		"last_registration_date", "registration_end_date",
	}
}

func (s *registrationsStrategy) Query() socrata.Query { return socrata.Query{} }

func (s *registrationsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	registrationID := rec.Int("registrationid")
	if registrationID == nil {
		return nil, nil
	}

	borough := rec.Str("boroid", "boro")
	bbl := MakeBBL(borough, rec.Str("block"), rec.Str("lot"))
	if bbl == "" {
		return nil, nil
	}

	return Row{
		"registration_id":        *registrationID,
		"bbl":                    bbl,
		"building_id":            ptrOrNil(rec.Int("buildingid")),
		"bin":                    strOrNil(rec.Str("bin")),
		"house_number":           strOrNil(rec.Str("housenumber")),
		"street_name":            strOrNil(rec.Str("streetname")),
		"borough":                ptrOrNil(boroughName(borough)),
		"zip_code":               strOrNil(rec.Str("zip")),
		"block":                  ptrOrNil(rec.Int("block")),
		"lot":                    ptrOrNil(rec.Int("lot")),
		"last_registration_date": ptrOrNil(rec.Date("lastregistrationdate")),
		"registration_end_date":  ptrOrNil(rec.Date("registrationenddate")),
	}, nil
}
