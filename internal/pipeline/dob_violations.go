package pipeline

import (
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// dobViolationsStrategy loads Department of Buildings violations, keyed by
// the DOB BIS internal serial number.
type dobViolationsStrategy struct {
	datasetID string
}

func (s *dobViolationsStrategy) Name() string      { return "dob_violations" }
func (s *dobViolationsStrategy) DatasetID() string { return s.datasetID }
func (s *dobViolationsStrategy) Table() string     { return "dob_violations" }

func (s *dobViolationsStrategy) KeyColumns() []string { return []string{"isn_dob_bis_viol"} }

func (s *dobViolationsStrategy) Columns() []string {
	return []string{
		"isn_dob_bis_viol", "bbl", "bin", "boro", "block", "lot", "issue_date",
		"violation_type_code", "violation_number", "house_number", "street",
		"disposition_date", "disposition_comments", "device_number",
		"description", "ecb_number", "number", "violation_category",
		"violation_type",
	}
}

func (s *dobViolationsStrategy) Query() socrata.Query { return socrata.Query{} }

func (s *dobViolationsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	isn := rec.Str("isn_dob_bis_viol")
	if isn == "" {
		return nil, nil
	}

	boro := rec.Str("boro")
	bbl := MakeBBL(boro, rec.Str("block"), rec.Str("lot"))

	return Row{
		"isn_dob_bis_viol":     isn,
		"bbl":                  strOrNil(bbl),
		"bin":                  strOrNil(rec.Str("bin")),
		"boro":                 strOrNil(boro),
		"block":                strOrNil(rec.Str("block")),
		"lot":                  strOrNil(rec.Str("lot")),
		"issue_date":           ptrOrNil(rec.Date("issue_date")),
		"violation_type_code":  strOrNil(rec.Str("violation_type_code")),
		"violation_number":     strOrNil(rec.Str("violation_number")),
		"house_number":         strOrNil(rec.Str("house_number")),
		"street":               strOrNil(rec.Str("street")),
		"disposition_date":     ptrOrNil(rec.Date("disposition_date")),
		"disposition_comments": strOrNil(rec.Str("disposition_comments")),
		"device_number":        strOrNil(rec.Str("device_number")),
		"description":          strOrNil(rec.Str("description")),
		"ecb_number":           strOrNil(rec.Str("ecb_number")),
		"number":               strOrNil(rec.Str("number")),
		"violation_category":   strOrNil(rec.Str("violation_category")),
		"violation_type":       strOrNil(rec.Str("violation_type")),
	}, nil
}
