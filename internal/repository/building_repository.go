package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/models"
)

// BuildingWithScore pairs a building with its computed risk score. Score is
// nil for buildings that have not been scored yet.
type BuildingWithScore struct {
	Building models.Building      `json:"building"`
	Score    *models.BuildingScore `json:"score,omitempty"`
}

// BuildingSearchParams filters and pages a building search. Zero values mean
// "no filter".
type BuildingSearchParams struct {
	Borough string
	Address string
	Grade   string
	Limit   int
	Offset  int
}

// BuildingRepository defines building read operations for the API surface.
type BuildingRepository interface {
	// GetByBBL returns a building with its score, or nil, nil when the BBL is
	// unknown.
	GetByBBL(ctx context.Context, bbl string) (*BuildingWithScore, error)

	// Search returns buildings matching the filters ordered by overall score
	// descending (unscored buildings last), plus the total match count for
	// pagination.
	Search(ctx context.Context, params BuildingSearchParams) ([]BuildingWithScore, int, error)

	// GetViolations returns the building's HPD violations, newest inspection
	// first.
	GetViolations(ctx context.Context, bbl string, limit int) ([]models.HPDViolation, error)

	// GetComplaints returns the building's 311 complaints, newest first.
	GetComplaints(ctx context.Context, bbl string, limit int) ([]models.Complaint, error)

	// GetEvictions returns the building's executed evictions, newest first.
	GetEvictions(ctx context.Context, bbl string) ([]models.Eviction, error)

	// GetOwnerPortfolio resolves the building's owner portfolio through its
	// most recent registration, or nil, nil when unresolved.
	GetOwnerPortfolio(ctx context.Context, bbl string) (*models.OwnerPortfolio, error)
}

type buildingRepository struct {
	db *database.Database
}

func NewBuildingRepository(db *database.Database) BuildingRepository {
	return &buildingRepository{db: db}
}

const buildingWithScoreColumns = `
	b.bbl, b.borough, b.block, b.lot, b.house_number, b.street_name,
	b.full_address, b.zip_code, b.residential_units, b.total_units,
	b.year_built, b.latitude, b.longitude, b.created_at, b.updated_at,
	s.violation_score, s.complaints_score, s.eviction_score,
	s.ownership_score, s.resolution_score, s.overall_score, s.grade,
	s.total_violations, s.class_c_violations, s.class_b_violations,
	s.class_a_violations, s.open_violations, s.total_complaints,
	s.total_evictions, s.avg_resolution_days, s.violations_per_unit,
	s.complaints_per_unit, s.evictions_per_unit, s.percentile_city,
	s.percentile_borough`

func (r *buildingRepository) GetByBBL(ctx context.Context, bbl string) (*BuildingWithScore, error) {
	query := `
		SELECT ` + buildingWithScoreColumns + `
		FROM buildings b
		LEFT JOIN building_scores s ON s.bbl = b.bbl
		WHERE b.bbl = $1`

	row := r.db.Pool.QueryRow(ctx, query, bbl)
	result, err := scanBuildingWithScore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query building %s: %w", bbl, err)
	}
	return result, nil
}

func (r *buildingRepository) Search(ctx context.Context, params BuildingSearchParams) ([]BuildingWithScore, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}

	if params.Borough != "" {
		args = append(args, params.Borough)
		conditions = append(conditions, fmt.Sprintf("b.borough ILIKE $%d", len(args)))
	}
	if params.Address != "" {
		args = append(args, "%"+params.Address+"%")
		conditions = append(conditions, fmt.Sprintf("b.full_address ILIKE $%d", len(args)))
	}
	if params.Grade != "" {
		args = append(args, params.Grade)
		conditions = append(conditions, fmt.Sprintf("s.grade = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM buildings b
		LEFT JOIN building_scores s ON s.bbl = b.bbl
		WHERE ` + where

	var total int
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count buildings: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM buildings b
		LEFT JOIN building_scores s ON s.bbl = b.bbl
		WHERE %s
		ORDER BY s.overall_score DESC NULLS LAST, b.bbl
		LIMIT $%d OFFSET $%d`,
		buildingWithScoreColumns, where, len(args)-1, len(args))

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search buildings: %w", err)
	}
	defer rows.Close()

	var results []BuildingWithScore
	for rows.Next() {
		result, err := scanBuildingWithScore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan building row: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read building rows: %w", err)
	}
	return results, total, nil
}

// scanBuildingWithScore scans one joined buildings/building_scores row. The
// score columns are all nullable because of the LEFT JOIN; a NULL
// overall_score means no score row exists.
func scanBuildingWithScore(row pgx.Row) (*BuildingWithScore, error) {
	var (
		b models.Building
		s models.BuildingScore

		violationScore, complaintsScore, evictionScore   *float64
		ownershipScore, resolutionScore, overallScore    *float64
		grade                                            *string
		totalViolations, classC, classB, classA          *int
		openViolations, totalComplaints, totalEvictions  *int
		violationsPerUnit, complaintsPerUnit             *float64
		evictionsPerUnit                                 *float64
	)

	err := row.Scan(
		&b.BBL, &b.Borough, &b.Block, &b.Lot, &b.HouseNumber, &b.StreetName,
		&b.FullAddress, &b.ZipCode, &b.ResidentialUnits, &b.TotalUnits,
		&b.YearBuilt, &b.Latitude, &b.Longitude, &b.CreatedAt, &b.UpdatedAt,
		&violationScore, &complaintsScore, &evictionScore,
		&ownershipScore, &resolutionScore, &overallScore, &grade,
		&totalViolations, &classC, &classB,
		&classA, &openViolations, &totalComplaints,
		&totalEvictions, &s.AvgResolutionDays, &violationsPerUnit,
		&complaintsPerUnit, &evictionsPerUnit, &s.PercentileCity,
		&s.PercentileBorough,
	)
	if err != nil {
		return nil, err
	}

	result := &BuildingWithScore{Building: b}
	if overallScore != nil {
		s.BBL = b.BBL
		s.ViolationScore = *violationScore
		s.ComplaintsScore = *complaintsScore
		s.EvictionScore = *evictionScore
		s.OwnershipScore = *ownershipScore
		s.ResolutionScore = *resolutionScore
		s.OverallScore = *overallScore
		s.Grade = *grade
		s.TotalViolations = *totalViolations
		s.ClassCViolations = *classC
		s.ClassBViolations = *classB
		s.ClassAViolations = *classA
		s.OpenViolations = *openViolations
		s.TotalComplaints = *totalComplaints
		s.TotalEvictions = *totalEvictions
		s.ViolationsPerUnit = *violationsPerUnit
		s.ComplaintsPerUnit = *complaintsPerUnit
		s.EvictionsPerUnit = *evictionsPerUnit
		result.Score = &s
	}
	return result, nil
}

func (r *buildingRepository) GetViolations(ctx context.Context, bbl string, limit int) ([]models.HPDViolation, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT
			violation_id, bbl, building_id, registration_id, apartment, story,
			inspection_date, approved_date, certified_date, order_number,
			novid, nov_description, nov_issued_date, nov_type, current_status,
			current_status_date, violation_status, violation_class,
			original_certify_by_date, original_correct_by_date,
			new_certify_by_date, new_correct_by_date
		FROM hpd_violations
		WHERE bbl = $1
		ORDER BY inspection_date DESC NULLS LAST
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, bbl, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations for %s: %w", bbl, err)
	}
	defer rows.Close()

	var violations []models.HPDViolation
	for rows.Next() {
		var v models.HPDViolation
		err := rows.Scan(
			&v.ViolationID, &v.BBL, &v.BuildingID, &v.RegistrationID,
			&v.Apartment, &v.Story, &v.InspectionDate, &v.ApprovedDate,
			&v.CertifiedDate, &v.OrderNumber, &v.NOVID, &v.NOVDescription,
			&v.NOVIssuedDate, &v.NOVType, &v.CurrentStatus,
			&v.CurrentStatusDate, &v.ViolationStatus, &v.ViolationClass,
			&v.OriginalCertifyByDate, &v.OriginalCorrectByDate,
			&v.NewCertifyByDate, &v.NewCorrectByDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan violation row: %w", err)
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

func (r *buildingRepository) GetComplaints(ctx context.Context, bbl string, limit int) ([]models.Complaint, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT
			unique_key, bbl, created_date, closed_date, agency, agency_name,
			complaint_type, descriptor, location_type, incident_zip,
			incident_address, street_name, city, status,
			resolution_description, resolution_action_updated_date, borough,
			latitude, longitude, days_to_resolve
		FROM complaints_311
		WHERE bbl = $1
		ORDER BY created_date DESC NULLS LAST
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, bbl, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints for %s: %w", bbl, err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		err := rows.Scan(
			&c.UniqueKey, &c.BBL, &c.CreatedDate, &c.ClosedDate, &c.Agency,
			&c.AgencyName, &c.ComplaintType, &c.Descriptor, &c.LocationType,
			&c.IncidentZip, &c.IncidentAddress, &c.StreetName, &c.City,
			&c.Status, &c.ResolutionDescription, &c.ResolutionActionUpdatedDate,
			&c.Borough, &c.Latitude, &c.Longitude, &c.DaysToResolve,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func (r *buildingRepository) GetEvictions(ctx context.Context, bbl string) ([]models.Eviction, error) {
	query := `
		SELECT
			court_index_number, docket_number, bbl, eviction_address, apt_seal,
			executed_date, marshal_first_name, marshal_last_name,
			residential_commercial, borough, ejectment, eviction_zip,
			scheduled_status, latitude, longitude
		FROM evictions
		WHERE bbl = $1
		ORDER BY executed_date DESC NULLS LAST`

	rows, err := r.db.Pool.Query(ctx, query, bbl)
	if err != nil {
		return nil, fmt.Errorf("failed to query evictions for %s: %w", bbl, err)
	}
	defer rows.Close()

	var evictions []models.Eviction
	for rows.Next() {
		var e models.Eviction
		err := rows.Scan(
			&e.CourtIndexNumber, &e.DocketNumber, &e.BBL, &e.EvictionAddress,
			&e.AptSeal, &e.ExecutedDate, &e.MarshalFirstName,
			&e.MarshalLastName, &e.ResidentialCommercial, &e.Borough,
			&e.Ejectment, &e.EvictionZip, &e.ScheduledStatus, &e.Latitude,
			&e.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan eviction row: %w", err)
		}
		evictions = append(evictions, e)
	}
	return evictions, rows.Err()
}

func (r *buildingRepository) GetOwnerPortfolio(ctx context.Context, bbl string) (*models.OwnerPortfolio, error) {
	// Prefer owner-type contacts from the building's most recent registration.
	query := `
		SELECT ` + portfolioColumns + `
		FROM owner_portfolios p
		JOIN registration_contacts c ON c.owner_portfolio_id = p.id
		JOIN hpd_registrations reg ON reg.registration_id = c.registration_id
		WHERE reg.bbl = $1
		ORDER BY
			reg.last_registration_date DESC NULLS LAST,
			CASE WHEN c.contact_type ILIKE '%owner%' THEN 0 ELSE 1 END
		LIMIT 1`

	row := r.db.Pool.QueryRow(ctx, query, bbl)
	p, err := scanPortfolio(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query owner portfolio for %s: %w", bbl, err)
	}
	return p, nil
}
