package pipeline

import (
	"testing"

	"github.com/nycwatch/landlordwatch/internal/config"
	"github.com/nycwatch/landlordwatch/internal/socrata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() map[string]Strategy {
	return NewRegistry(config.DatasetConfig{
		HPDViolations:        "wvxf-dwi5",
		HPDRegistrations:     "tesw-yqqr",
		RegistrationContacts: "feu5-w2e2",
		Complaints311:        "erm2-nwe9",
		DOBViolations:        "3h2n-5cm9",
		Evictions:            "6z8x-wfk4",
		PLUTO:                "64uk-42ks",
	})
}

func TestNewRegistry_CoversLoadOrder(t *testing.T) {
	registry := testRegistry()
	for _, name := range LoadOrder {
		s, err := Lookup(registry, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}
	assert.Len(t, registry, len(LoadOrder))
}

func TestLookup_UnknownExtractor(t *testing.T) {
	_, err := Lookup(testRegistry(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor")
}

func TestBuildingsTransform(t *testing.T) {
	s := testRegistry()["buildings"]

	row, err := s.Transform(socrata.RawRecord{
		"boroid":      "1",
		"block":       "150",
		"lot":         "1",
		"housenumber": "350",
		"streetname":  "BROADWAY",
		"zip":         "10013",
		"totalunits":  "24",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1001500001", row["bbl"])
	assert.Equal(t, "350 BROADWAY", row["full_address"])
	assert.Equal(t, 24, row["total_units"])
	assert.Equal(t, "Manhattan", row["borough"])
}

func TestBuildingsTransform_SkipsUnresolvableBBL(t *testing.T) {
	s := testRegistry()["buildings"]

	row, err := s.Transform(socrata.RawRecord{"housenumber": "350"})
	require.NoError(t, err)
	assert.Nil(t, row, "record without block/lot has no natural key")
}

func TestHPDViolationsTransform_KeepsNullBBL(t *testing.T) {
	s := testRegistry()["hpd_violations"]

	row, err := s.Transform(socrata.RawRecord{
		"violationid": "12345",
		"class":       "C",
	})
	require.NoError(t, err)
	require.NotNil(t, row, "violation without a resolvable BBL is still loaded")
	assert.Equal(t, 12345, row["violation_id"])
	assert.Nil(t, row["bbl"])
	assert.Equal(t, "C", row["violation_class"])
}

func TestHPDViolationsTransform_SkipsMissingID(t *testing.T) {
	s := testRegistry()["hpd_violations"]

	row, err := s.Transform(socrata.RawRecord{"boroid": "1", "block": "150", "lot": "1"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestContactsTransform_BuildsNameAndFingerprint(t *testing.T) {
	s := testRegistry()["registration_contacts"]

	row, err := s.Transform(socrata.RawRecord{
		"registrationid":      "987",
		"type":                "HeadOfficer",
		"firstname":           "Jane",
		"middleinitial":       "Q",
		"lastname":            "Doe",
		"businesshousenumber": "123",
		"businessstreetname":  "Main Street",
		"businesscity":        "New York",
		"businessstate":       "NY",
		"businesszip":         "10001",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 987, row["registration_id"])
	assert.Equal(t, "Jane Q Doe", row["full_name"])
	assert.Equal(t, "JANE Q DOE", row["normalized_name"])
	hash, ok := row["name_hash"].(string)
	require.True(t, ok)
	assert.Len(t, hash, 32)
}

func TestContactsTransform_CorporationNameWins(t *testing.T) {
	s := testRegistry()["registration_contacts"]

	row, err := s.Transform(socrata.RawRecord{
		"registrationid":  "987",
		"type":            "CorporateOwner",
		"corporationname": "ABC Realty, LLC.",
		"firstname":       "Jane",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "ABC Realty, LLC.", row["full_name"])
	assert.Equal(t, "ABC REALTY", row["normalized_name"])
}

func TestContactsTransform_SkipsNamelessContact(t *testing.T) {
	s := testRegistry()["registration_contacts"]

	row, err := s.Transform(socrata.RawRecord{"registrationid": "987", "type": "Agent"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestComplaintsTransform_DaysToResolve(t *testing.T) {
	s := testRegistry()["complaints_311"]

	row, err := s.Transform(socrata.RawRecord{
		"unique_key":     "55555",
		"bbl":            "3012340056",
		"created_date":   "2024-01-01T08:00:00.000",
		"closed_date":    "2024-01-11T08:00:00.000",
		"complaint_type": "HEAT/HOT WATER",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 55555, row["unique_key"])
	assert.Equal(t, "3012340056", row["bbl"])
	assert.Equal(t, 10, row["days_to_resolve"])
}

func TestComplaintsTransform_OpenComplaintHasNoResolution(t *testing.T) {
	s := testRegistry()["complaints_311"]

	row, err := s.Transform(socrata.RawRecord{
		"unique_key":   "55556",
		"created_date": "2024-01-01T08:00:00.000",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Nil(t, row["days_to_resolve"])
	assert.Nil(t, row["bbl"])
}

func TestComplaintsQuery_FiltersHousingTypes(t *testing.T) {
	q := testRegistry()["complaints_311"].Query()
	assert.Contains(t, q.Where, "'HEAT/HOT WATER'")
	assert.Contains(t, q.Where, "'PAINT - Loss OF COVERAGE OR PEELING'")
	assert.Contains(t, q.Where, "OR agency = 'HPD'")
	assert.Len(t, housingComplaintTypes, 20)
}

func TestEvictionsTransform_AliasProbing(t *testing.T) {
	s := testRegistry()["evictions"]

	row, err := s.Transform(socrata.RawRecord{
		"courtindexnumber": "12345/2024",
		"docketnumber":     "99887",
		"executeddate":     "2024-03-15T00:00:00.000",
		"borough":          "BRONX",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "12345/2024", row["court_index_number"])
	assert.Equal(t, "99887", row["docket_number"])
	assert.NotNil(t, row["executed_date"])
	assert.Nil(t, row["bbl"])
}

func TestPlutoTransform(t *testing.T) {
	s := testRegistry()["pluto"]

	row, err := s.Transform(socrata.RawRecord{
		"bbl":        "1001500001.00000000",
		"unitsres":   "20",
		"unitstotal": "22",
		"yearbuilt":  "1925",
		"latitude":   "40.7167",
		"longitude":  "-74.0037",
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1001500001", row["bbl"])
	assert.Equal(t, 20, row["residential_units"])
	assert.Equal(t, 1925, row["year_built"])
}

func TestPlutoTransform_SkipsEmptyEnrichment(t *testing.T) {
	s := testRegistry()["pluto"]

	row, err := s.Transform(socrata.RawRecord{"bbl": "1001500001"})
	require.NoError(t, err)
	assert.Nil(t, row, "a PLUTO row contributing nothing is skipped")

	row, err = s.Transform(socrata.RawRecord{"unitsres": "20"})
	require.NoError(t, err)
	assert.Nil(t, row, "a PLUTO row without a valid BBL is skipped")
}

func TestFullRefresh_SkipsTruncateForEnrichmentStrategies(t *testing.T) {
	registry := testRegistry()

	// PLUTO only updates buildings the registrations stage already loaded;
	// truncating at its stage would wipe those rows with nothing to re-insert.
	assert.False(t, shouldTruncate(registry["pluto"], true))

	assert.True(t, shouldTruncate(registry["buildings"], true))
	assert.True(t, shouldTruncate(registry["hpd_violations"], true))
	assert.False(t, shouldTruncate(registry["buildings"], false))
}
