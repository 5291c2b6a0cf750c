package pipeline

import (
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// evictionsStrategy loads marshal eviction filings. Field names in this
// dataset have drifted between snake_case and compact forms, so every lookup
// probes both.
type evictionsStrategy struct {
	datasetID string
}

func (s *evictionsStrategy) Name() string      { return "evictions" }
func (s *evictionsStrategy) DatasetID() string { return s.datasetID }
func (s *evictionsStrategy) Table() string     { return "evictions" }

func (s *evictionsStrategy) KeyColumns() []string { return []string{"court_index_number"} }

func (s *evictionsStrategy) Columns() []string {
	return []string{
		"court_index_number", "docket_number", "bbl", "eviction_address",
		"apt_seal", "executed_date", "marshal_first_name", "marshal_last_name",
		"residential_commercial", "borough", "ejectment", "eviction_zip",
		"scheduled_status", "latitude", "longitude",
	}
}

func (s *evictionsStrategy) Query() socrata.Query { return socrata.Query{} }

func (s *evictionsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	courtIndex := rec.Str("court_index_number", "courtindexnumber")
	if courtIndex == "" {
		return nil, nil
	}

	// Evictions rarely geocode to a BBL; orphaned filings are kept.
	bbl := normalizeBBL(rec.Str("bbl"))

	return Row{
		"court_index_number":     courtIndex,
		"docket_number":          strOrNil(rec.Str("docket_number", "docketnumber")),
		"bbl":                    strOrNil(bbl),
		"eviction_address":       strOrNil(rec.Str("eviction_address", "evictionaddress")),
		"apt_seal":               strOrNil(rec.Str("eviction_apt_num", "aptseal")),
		"executed_date":          ptrOrNil(rec.Date("executed_date", "executeddate")),
		"marshal_first_name":     strOrNil(rec.Str("marshal_first_name", "marshalfirstname")),
		"marshal_last_name":      strOrNil(rec.Str("marshal_last_name", "marshallastname")),
		"residential_commercial": strOrNil(rec.Str("residential_commercial_ind", "residentialcommercialind")),
		"borough":                strOrNil(rec.Str("borough")),
		"ejectment":              strOrNil(rec.Str("ejectment")),
		"eviction_zip":           strOrNil(rec.Str("eviction_zip", "evictionzip")),
		"scheduled_status":       strOrNil(rec.Str("eviction_possession", "scheduledstatus")),
		"latitude":               ptrOrNil(rec.Float("latitude")),
		"longitude":              ptrOrNil(rec.Float("longitude")),
	}, nil
}
