package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/models"
)

// BuildingFacts is the per-building aggregate input to scoring: raw counts
// from every fact table plus ownership context. Units is always at least 1.
type BuildingFacts struct {
	BBL     string
	Borough *string
	Units   int

	TotalViolations  int
	ClassCViolations int
	ClassBViolations int
	ClassAViolations int
	OpenViolations   int

	TotalComplaints   int
	AvgResolutionDays *float64

	TotalEvictions int

	// Ownership context from the resolved portfolio, when one exists.
	OwnerIsLLC         bool
	PortfolioBuildings int
}

// PortfolioBuildingScore is one scored building attributed to a portfolio,
// used to roll building scores up to portfolio scores.
type PortfolioBuildingScore struct {
	PortfolioID  int64
	OverallScore float64
}

// ScoreRepository defines the scoring stage's bulk reads and writes.
type ScoreRepository interface {
	// LoadBuildingFacts returns aggregate facts for every building.
	LoadBuildingFacts(ctx context.Context) ([]BuildingFacts, error)

	// ReplaceBuildingScores replaces the entire building_scores table with
	// the given scores in a single transaction.
	ReplaceBuildingScores(ctx context.Context, scores []models.BuildingScore) error

	// LoadPortfolioBuildingScores returns every scored building attributed
	// to a portfolio.
	LoadPortfolioBuildingScores(ctx context.Context) ([]PortfolioBuildingScore, error)

	// WorstBuildings returns the highest-scored buildings, optionally
	// filtered to one borough.
	WorstBuildings(ctx context.Context, borough string, limit int) ([]BuildingWithScore, error)
}

type scoreRepository struct {
	db *database.Database
}

func NewScoreRepository(db *database.Database) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) LoadBuildingFacts(ctx context.Context) ([]BuildingFacts, error) {
	// Facts join the buildings table against pre-aggregated per-BBL counts.
	// Orphaned facts (NULL BBL) drop out of every aggregate. The ownership
	// lateral picks the portfolio behind the most recent registration.
	query := `
		SELECT
			b.bbl,
			b.borough,
			GREATEST(COALESCE(b.total_units, 0), 1) AS units,
			COALESCE(v.total, 0),
			COALESCE(v.class_c, 0),
			COALESCE(v.class_b, 0),
			COALESCE(v.class_a, 0),
			COALESCE(v.open_count, 0),
			COALESCE(cp.total, 0),
			cp.avg_days,
			COALESCE(ev.total, 0),
			COALESCE(own.is_llc, FALSE),
			COALESCE(own.total_buildings, 0)
		FROM buildings b
		LEFT JOIN (
			SELECT bbl,
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE violation_class = 'C') AS class_c,
				COUNT(*) FILTER (WHERE violation_class = 'B') AS class_b,
				COUNT(*) FILTER (WHERE violation_class = 'A') AS class_a,
				COUNT(*) FILTER (WHERE current_status IN ('OPEN', 'NOV SENT')) AS open_count
			FROM hpd_violations
			WHERE bbl IS NOT NULL
			GROUP BY bbl
		) v ON v.bbl = b.bbl
		LEFT JOIN (
			SELECT bbl,
				COUNT(*) AS total,
				AVG(days_to_resolve) AS avg_days
			FROM complaints_311
			WHERE bbl IS NOT NULL
			GROUP BY bbl
		) cp ON cp.bbl = b.bbl
		LEFT JOIN (
			SELECT bbl, COUNT(*) AS total
			FROM evictions
			WHERE bbl IS NOT NULL
			GROUP BY bbl
		) ev ON ev.bbl = b.bbl
		LEFT JOIN LATERAL (
			SELECT p.is_llc, p.total_buildings
			FROM hpd_registrations reg
			JOIN registration_contacts c ON c.registration_id = reg.registration_id
			JOIN owner_portfolios p ON p.id = c.owner_portfolio_id
			WHERE reg.bbl = b.bbl
			ORDER BY reg.last_registration_date DESC NULLS LAST
			LIMIT 1
		) own ON TRUE`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load building facts: %w", err)
	}
	defer rows.Close()

	var facts []BuildingFacts
	for rows.Next() {
		var f BuildingFacts
		err := rows.Scan(
			&f.BBL, &f.Borough, &f.Units,
			&f.TotalViolations, &f.ClassCViolations, &f.ClassBViolations,
			&f.ClassAViolations, &f.OpenViolations,
			&f.TotalComplaints, &f.AvgResolutionDays,
			&f.TotalEvictions,
			&f.OwnerIsLLC, &f.PortfolioBuildings,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building facts row: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (r *scoreRepository) ReplaceBuildingScores(ctx context.Context, scores []models.BuildingScore) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin score replacement: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE building_scores"); err != nil {
		return fmt.Errorf("failed to truncate building_scores: %w", err)
	}

	const insert = `
		INSERT INTO building_scores (
			bbl, violation_score, complaints_score, eviction_score,
			ownership_score, resolution_score, overall_score, grade,
			total_violations, class_c_violations, class_b_violations,
			class_a_violations, open_violations, total_complaints,
			total_evictions, avg_resolution_days, violations_per_unit,
			complaints_per_unit, evictions_per_unit, percentile_city,
			percentile_borough
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21
		)`

	// Scores can number in the hundreds of thousands; pipelined batches keep
	// round trips down without building one giant statement.
	const chunkSize = 1000
	for start := 0; start < len(scores); start += chunkSize {
		end := start + chunkSize
		if end > len(scores) {
			end = len(scores)
		}

		batch := &pgx.Batch{}
		for _, s := range scores[start:end] {
			batch.Queue(insert,
				s.BBL, s.ViolationScore, s.ComplaintsScore, s.EvictionScore,
				s.OwnershipScore, s.ResolutionScore, s.OverallScore, s.Grade,
				s.TotalViolations, s.ClassCViolations, s.ClassBViolations,
				s.ClassAViolations, s.OpenViolations, s.TotalComplaints,
				s.TotalEvictions, s.AvgResolutionDays, s.ViolationsPerUnit,
				s.ComplaintsPerUnit, s.EvictionsPerUnit, s.PercentileCity,
				s.PercentileBorough)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert building scores: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit score replacement: %w", err)
	}
	return nil
}

func (r *scoreRepository) LoadPortfolioBuildingScores(ctx context.Context) ([]PortfolioBuildingScore, error) {
	query := `
		SELECT DISTINCT ON (c.owner_portfolio_id, reg.bbl)
			c.owner_portfolio_id,
			s.overall_score
		FROM registration_contacts c
		JOIN hpd_registrations reg ON reg.registration_id = c.registration_id
		JOIN building_scores s ON s.bbl = reg.bbl
		WHERE c.owner_portfolio_id IS NOT NULL
		ORDER BY c.owner_portfolio_id, reg.bbl`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio building scores: %w", err)
	}
	defer rows.Close()

	var results []PortfolioBuildingScore
	for rows.Next() {
		var pbs PortfolioBuildingScore
		if err := rows.Scan(&pbs.PortfolioID, &pbs.OverallScore); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio building score: %w", err)
		}
		results = append(results, pbs)
	}
	return results, rows.Err()
}

func (r *scoreRepository) WorstBuildings(ctx context.Context, borough string, limit int) ([]BuildingWithScore, error) {
	if limit <= 0 {
		limit = 25
	}

	args := []interface{}{limit}
	boroughFilter := ""
	if borough != "" {
		args = append(args, borough)
		boroughFilter = "AND b.borough ILIKE $2"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM buildings b
		JOIN building_scores s ON s.bbl = b.bbl
		WHERE TRUE %s
		ORDER BY s.overall_score DESC, b.bbl
		LIMIT $1`, buildingWithScoreColumns, boroughFilter)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query worst buildings: %w", err)
	}
	defer rows.Close()

	var results []BuildingWithScore
	for rows.Next() {
		result, err := scanBuildingWithScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building row: %w", err)
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}
