package pipeline

import (
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// hpdViolationsStrategy loads HPD housing-maintenance-code violations.
// Violations whose BBL cannot be resolved are kept with a NULL BBL: facts
// tolerate orphans because the schema deliberately has no foreign key from
// facts to buildings.
type hpdViolationsStrategy struct {
	datasetID string
}

func (s *hpdViolationsStrategy) Name() string      { return "hpd_violations" }
func (s *hpdViolationsStrategy) DatasetID() string { return s.datasetID }
func (s *hpdViolationsStrategy) Table() string     { return "hpd_violations" }

func (s *hpdViolationsStrategy) KeyColumns() []string { return []string{"violation_id"} }

func (s *hpdViolationsStrategy) Columns() []string {
	return []string{
		"violation_id", "bbl", "building_id", "registration_id", "apartment",
		"story", "inspection_date", "approved_date", "original_certify_by_date",
		"original_correct_by_date", "new_certify_by_date", "new_correct_by_date",
		"certified_date", "order_number", "novid", "nov_description",
		"nov_issued_date", "current_status", "current_status_date", "nov_type",
		"violation_status", "violation_class",
	}
}

func (s *hpdViolationsStrategy) Query() socrata.Query {
	// Newest violations first so an interrupted incremental run still has the
	// most relevant rows.
	return socrata.Query{Order: "inspectiondate DESC"}
}

func (s *hpdViolationsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	violationID := rec.Int("violationid")
	if violationID == nil {
		return nil, nil
	}

	bbl := MakeBBL(rec.Str("boroid", "boro"), rec.Str("block"), rec.Str("lot"))

	return Row{
		"violation_id":             *violationID,
		"bbl":                      strOrNil(bbl),
		"building_id":              ptrOrNil(rec.Int("buildingid")),
		"registration_id":          ptrOrNil(rec.Int("registrationid")),
		"apartment":                strOrNil(rec.Str("apartment")),
		"story":                    strOrNil(rec.Str("story")),
		"inspection_date":          ptrOrNil(rec.Date("inspectiondate")),
		"approved_date":            ptrOrNil(rec.Date("approveddate")),
		"original_certify_by_date": ptrOrNil(rec.Date("originalcertifybydate")),
		"original_correct_by_date": ptrOrNil(rec.Date("originalcorrectbydate")),
		"new_certify_by_date":      ptrOrNil(rec.Date("newcertifybydate")),
		"new_correct_by_date":      ptrOrNil(rec.Date("newcorrectbydate")),
		"certified_date":           ptrOrNil(rec.Date("certifieddate")),
		"order_number":             strOrNil(rec.Str("ordernumber")),
		"novid":                    ptrOrNil(rec.Int("novid")),
		"nov_description":          strOrNil(rec.Str("novdescription")),
		"nov_issued_date":          ptrOrNil(rec.Date("novissueddate")),
		"current_status":           strOrNil(rec.Str("currentstatus")),
		"current_status_date":      ptrOrNil(rec.Date("currentstatusdate")),
		"nov_type":                 strOrNil(rec.Str("novtype")),
		"violation_status":         strOrNil(rec.Str("violationstatus")),
		"violation_class":          strOrNil(rec.Str("class")),
	}, nil
}
