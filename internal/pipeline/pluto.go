package pipeline

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// plutoStrategy enriches existing buildings with unit counts, year built and
// coordinates from the city PLUTO parcel dataset. It deviates from the shared
// upsert semantics: fields are only overwritten when the incoming value is
// non-null, and buildings never seen in registration data are not created.
// PLUTO covers every tax lot in the city; inserting from it would flood the
// buildings table with lots this system knows nothing else about.
type plutoStrategy struct {
	datasetID string
}

func (s *plutoStrategy) Name() string      { return "pluto" }
func (s *plutoStrategy) DatasetID() string { return s.datasetID }
func (s *plutoStrategy) Table() string     { return "buildings" }

func (s *plutoStrategy) KeyColumns() []string { return []string{"bbl"} }

func (s *plutoStrategy) enrichOnly() {}

func (s *plutoStrategy) Columns() []string {
	return []string{
		"bbl", "residential_units", "total_units", "year_built",
		"latitude", "longitude",
	}
}

func (s *plutoStrategy) Query() socrata.Query {
	return socrata.Query{Select: "bbl,unitsres,unitstotal,yearbuilt,latitude,longitude"}
}

func (s *plutoStrategy) Transform(rec socrata.RawRecord) (Row, error) {
	bbl := normalizeBBL(rec.Str("bbl"))
	if bbl == "" {
		return nil, nil
	}

	residentialUnits := rec.Int("unitsres")
	totalUnits := rec.Int("unitstotal")
	yearBuilt := rec.Int("yearbuilt")
	latitude := rec.Float("latitude")
	longitude := rec.Float("longitude")

	// A PLUTO row with nothing to contribute is noise.
	if residentialUnits == nil && totalUnits == nil && yearBuilt == nil &&
		latitude == nil && longitude == nil {
		return nil, nil
	}

	return Row{
		"bbl":               bbl,
		"residential_units": ptrOrNil(residentialUnits),
		"total_units":       ptrOrNil(totalUnits),
		"year_built":        ptrOrNil(yearBuilt),
		"latitude":          ptrOrNil(latitude),
		"longitude":         ptrOrNil(longitude),
	}, nil
}

// WriteBatch updates existing buildings only, coalescing each field so a
// NULL incoming value never clobbers known data.
func (s *plutoStrategy) WriteBatch(ctx context.Context, tx pgx.Tx, rows []Row) error {
	const sql = `
		UPDATE buildings SET
			residential_units = COALESCE($2, residential_units),
			total_units       = COALESCE($3, total_units),
			year_built        = COALESCE($4, year_built),
			latitude          = COALESCE($5, latitude),
			longitude         = COALESCE($6, longitude),
			updated_at        = NOW()
		WHERE bbl = $1`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(sql,
			row["bbl"], row["residential_units"], row["total_units"],
			row["year_built"], row["latitude"], row["longitude"])
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to apply parcel enrichment batch: %w", err)
	}
	return nil
}
