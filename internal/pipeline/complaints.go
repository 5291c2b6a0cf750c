package pipeline

import (
	"fmt"
	"strings"

	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// housingComplaintTypes is the 311 complaint-type allowlist: the subset of
// complaint types that reflect housing conditions rather than street-level
// issues.
var housingComplaintTypes = []string{
	"HEAT/HOT WATER",
	"HEATING",
	"PLUMBING",
	"WATER SYSTEM",
	"ELECTRIC",
	"ELEVATOR",
	"APPLIANCE",
	"PAINT/PLASTER",
	"FLOORING/STAIRS",
	"DOOR/WINDOW",
	"SAFETY",
	"GENERAL CONSTRUCTION/PLUMBING",
	"UNSANITARY CONDITION",
	"PAINT - Loss OF COVERAGE OR PEELING",
	"WATER LEAK",
	"MOLD",
	"RODENT",
	"PEST",
	"ROACH",
	"VERMIN",
}

// complaintsStrategy loads housing-related 311 service requests. The filter
// is pushed to the source side so the multi-gigabyte 311 dataset never
// arrives unfiltered. DaysToResolve is derived at transform time.
type complaintsStrategy struct {
	datasetID string
}

func (s *complaintsStrategy) Name() string      { return "complaints_311" }
func (s *complaintsStrategy) DatasetID() string { return s.datasetID }
func (s *complaintsStrategy) Table() string     { return "complaints_311" }

func (s *complaintsStrategy) KeyColumns() []string { return []string{"unique_key"} }

func (s *complaintsStrategy) Columns() []string {
	return []string{
		"unique_key", "bbl", "created_date", "closed_date", "agency",
		"agency_name", "complaint_type", "descriptor", "location_type",
		"incident_zip", "incident_address", "street_name", "city", "status",
		"resolution_description", "resolution_action_updated_date", "borough",
		"latitude", "longitude", "days_to_resolve",
	}
}

func (s *complaintsStrategy) Query() socrata.Query {
	quoted := make([]string, len(housingComplaintTypes))
	for i, t := range housingComplaintTypes {
		quoted[i] = "'" + t + "'"
	}
	return socrata.Query{
		Where: fmt.Sprintf("complaint_type IN (%s) OR agency = 'HPD'", strings.Join(quoted, ", ")),
	}
}

func (s *complaintsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	uniqueKey := rec.Int("unique_key")
	if uniqueKey == nil {
		return nil, nil
	}

	// 311 records carry a BBL directly when geocoding succeeded; there is no
	// block/lot fallback in this dataset. Orphaned complaints are kept.
	bbl := normalizeBBL(rec.Str("bbl"))

	created := rec.Date("created_date")
	closed := rec.Date("closed_date")
	var daysToResolve interface{}
	if created != nil && closed != nil {
		daysToResolve = int(closed.Sub(*created).Hours() / 24)
	}

	return Row{
		"unique_key":                     *uniqueKey,
		"bbl":                            strOrNil(bbl),
		"created_date":                   ptrOrNil(created),
		"closed_date":                    ptrOrNil(closed),
		"agency":                         strOrNil(rec.Str("agency")),
		"agency_name":                    strOrNil(rec.Str("agency_name")),
		"complaint_type":                 strOrNil(rec.Str("complaint_type")),
		"descriptor":                     strOrNil(rec.Str("descriptor")),
		"location_type":                  strOrNil(rec.Str("location_type")),
		"incident_zip":                   strOrNil(rec.Str("incident_zip")),
		"incident_address":               strOrNil(rec.Str("incident_address")),
		"street_name":                    strOrNil(rec.Str("street_name")),
		"city":                           strOrNil(rec.Str("city")),
		"status":                         strOrNil(rec.Str("status")),
		"resolution_description":         strOrNil(rec.Str("resolution_description")),
		"resolution_action_updated_date": ptrOrNil(rec.Date("resolution_action_updated_date")),
		"borough":                        strOrNil(rec.Str("borough")),
		"latitude":                       ptrOrNil(rec.Float("latitude")),
		"longitude":                      ptrOrNil(rec.Float("longitude")),
		"days_to_resolve":                daysToResolve,
	}, nil
}
