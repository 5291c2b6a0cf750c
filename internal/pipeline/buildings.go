package pipeline

import (
	"strings"

	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// buildingsStrategy materializes building rows from the HPD registrations
// dataset. It runs first in the load order so every later dataset has
// buildings to join against.
type buildingsStrategy struct {
	datasetID string
}

func (s *buildingsStrategy) Name() string      { return "buildings" }
func (s *buildingsStrategy) DatasetID() string { return s.datasetID }
func (s *buildingsStrategy) Table() string     { return "buildings" }

func (s *buildingsStrategy) KeyColumns() []string { return []string{"bbl"} }

func (s *buildingsStrategy) Columns() []string {
	return []string{
		"bbl", "borough", "block", "lot", "house_number", "street_name",
		"full_address", "zip_code", "total_units",
	}
}

func (s *buildingsStrategy) Query() socrata.Query { return socrata.Query{} }

func (s *buildingsStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	borough := rec.Str("boroid", "boro")
	bbl := MakeBBL(borough, rec.Str("block"), rec.Str("lot"))
	if bbl == "" {
		return nil, nil
	}

	houseNumber := rec.Str("housenumber")
	streetName := rec.Str("streetname")
	fullAddress := strings.TrimSpace(houseNumber + " " + streetName)

	return Row{
		"bbl":          bbl,
		"borough":      ptrOrNil(boroughName(borough)),
		"block":        ptrOrNil(rec.Int("block")),
		"lot":          ptrOrNil(rec.Int("lot")),
		"house_number": strOrNil(houseNumber),
		"street_name":  strOrNil(streetName),
		"full_address": strOrNil(fullAddress),
		"zip_code":     strOrNil(rec.Str("zip")),
		"total_units":  ptrOrNil(rec.Int("totalunits")),
	}, nil
}
