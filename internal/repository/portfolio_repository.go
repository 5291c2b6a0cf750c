package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/models"
)

// PortfolioSeed is one unresolved fingerprint group: the representative
// contact values used to create a new portfolio row.
type PortfolioSeed struct {
	NameHash          string
	PrimaryName       string
	NormalizedName    string
	PrimaryAddress    *string
	NormalizedAddress string
	ContactCount      int
}

// PortfolioScoreUpdate carries one portfolio's recomputed score.
type PortfolioScoreUpdate struct {
	PortfolioID int64
	Score       float64
	Grade       string
}

// PortfolioRepository defines owner-portfolio access: API reads plus the
// set-based operations the resolution stage runs.
type PortfolioRepository interface {
	// GetByID returns a portfolio, or nil, nil when the ID is unknown.
	GetByID(ctx context.Context, id int64) (*models.OwnerPortfolio, error)

	// GetBuildings returns the portfolio's buildings with scores, worst
	// first.
	GetBuildings(ctx context.Context, id int64) ([]BuildingWithScore, error)

	// Search returns portfolios whose normalized name matches, largest
	// holdings first.
	Search(ctx context.Context, name string, limit int) ([]models.OwnerPortfolio, error)

	// WorstPortfolios returns the highest-scored portfolios holding at least
	// minBuildings buildings.
	WorstPortfolios(ctx context.Context, minBuildings, limit int) ([]models.OwnerPortfolio, error)

	// UnresolvedFingerprints returns one seed per contact fingerprint that
	// has no portfolio row yet.
	UnresolvedFingerprints(ctx context.Context) ([]PortfolioSeed, error)

	// CreatePortfolio inserts one portfolio and returns its ID. Safe to call
	// concurrently with extraction: the fingerprint is unique and conflicts
	// resolve to the existing row.
	CreatePortfolio(ctx context.Context, tx pgx.Tx, seed PortfolioSeed, isLLC bool) (int64, error)

	// AssignContacts links every contact to the portfolio sharing its
	// fingerprint, set-based. Returns the number of contacts updated.
	AssignContacts(ctx context.Context, tx pgx.Tx) (int64, error)

	// RefreshStats recomputes every portfolio's aggregate counts from the
	// fact tables.
	RefreshStats(ctx context.Context, tx pgx.Tx) error

	// UpdateScores writes recomputed portfolio scores.
	UpdateScores(ctx context.Context, tx pgx.Tx, updates []PortfolioScoreUpdate) error
}

type portfolioRepository struct {
	db *database.Database
}

func NewPortfolioRepository(db *database.Database) PortfolioRepository {
	return &portfolioRepository{db: db}
}

const portfolioColumns = `
	p.id, p.primary_name, p.normalized_name, p.name_hash, p.primary_address,
	p.normalized_address, p.total_buildings, p.total_units, p.total_violations,
	p.total_complaints, p.total_evictions, p.class_c_violations,
	p.class_b_violations, p.class_a_violations, p.portfolio_score,
	p.portfolio_grade, p.is_llc, p.created_at, p.updated_at`

func scanPortfolio(row pgx.Row) (*models.OwnerPortfolio, error) {
	var p models.OwnerPortfolio
	err := row.Scan(
		&p.ID, &p.PrimaryName, &p.NormalizedName, &p.NameHash,
		&p.PrimaryAddress, &p.NormalizedAddress, &p.TotalBuildings,
		&p.TotalUnits, &p.TotalViolations, &p.TotalComplaints,
		&p.TotalEvictions, &p.ClassCViolations, &p.ClassBViolations,
		&p.ClassAViolations, &p.PortfolioScore, &p.PortfolioGrade, &p.IsLLC,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id int64) (*models.OwnerPortfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM owner_portfolios p WHERE p.id = $1`

	p, err := scanPortfolio(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query portfolio %d: %w", id, err)
	}
	return p, nil
}

func (r *portfolioRepository) GetBuildings(ctx context.Context, id int64) ([]BuildingWithScore, error) {
	query := `
		SELECT DISTINCT ON (b.bbl) ` + buildingWithScoreColumns + `
		FROM buildings b
		JOIN hpd_registrations reg ON reg.bbl = b.bbl
		JOIN registration_contacts c ON c.registration_id = reg.registration_id
		LEFT JOIN building_scores s ON s.bbl = b.bbl
		WHERE c.owner_portfolio_id = $1
		ORDER BY b.bbl, s.overall_score DESC NULLS LAST`

	rows, err := r.db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query buildings for portfolio %d: %w", id, err)
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

func (r *portfolioRepository) Search(ctx context.Context, name string, limit int) ([]models.OwnerPortfolio, error) {
	if limit <= 0 {
		limit = 25
	}
	query := `
		SELECT ` + portfolioColumns + `
		FROM owner_portfolios p
		WHERE p.normalized_name ILIKE $1
		ORDER BY p.total_buildings DESC, p.id
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, "%"+name+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search portfolios: %w", err)
	}
	defer rows.Close()
	return collectPortfolios(rows)
}

func (r *portfolioRepository) WorstPortfolios(ctx context.Context, minBuildings, limit int) ([]models.OwnerPortfolio, error) {
	if limit <= 0 {
		limit = 25
	}
	query := `
		SELECT ` + portfolioColumns + `
		FROM owner_portfolios p
		WHERE p.total_buildings >= $1 AND p.portfolio_score IS NOT NULL
		ORDER BY p.portfolio_score DESC, p.total_buildings DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, minBuildings, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query worst portfolios: %w", err)
	}
	defer rows.Close()
	return collectPortfolios(rows)
}

func collectPortfolios(rows pgx.Rows) ([]models.OwnerPortfolio, error) {
	var portfolios []models.OwnerPortfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio row: %w", err)
		}
		portfolios = append(portfolios, *p)
	}
	return portfolios, rows.Err()
}

func (r *portfolioRepository) UnresolvedFingerprints(ctx context.Context) ([]PortfolioSeed, error) {
	// One seed per fingerprint with no portfolio row. The representative
	// name/address are taken from the most common spelling within the group.
	query := `
		SELECT DISTINCT ON (c.name_hash)
			c.name_hash,
			c.full_name,
			c.normalized_name,
			c.business_address,
			c.normalized_address,
			COUNT(*) OVER (PARTITION BY c.name_hash) AS contact_count
		FROM registration_contacts c
		WHERE c.name_hash <> ''
		  AND NOT EXISTS (
			SELECT 1 FROM owner_portfolios p WHERE p.name_hash = c.name_hash
		  )
		ORDER BY c.name_hash, c.id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved fingerprints: %w", err)
	}
	defer rows.Close()

	var seeds []PortfolioSeed
	for rows.Next() {
		var s PortfolioSeed
		err := rows.Scan(&s.NameHash, &s.PrimaryName, &s.NormalizedName,
			&s.PrimaryAddress, &s.NormalizedAddress, &s.ContactCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint row: %w", err)
		}
		seeds = append(seeds, s)
	}
	return seeds, rows.Err()
}

func (r *portfolioRepository) CreatePortfolio(ctx context.Context, tx pgx.Tx, seed PortfolioSeed, isLLC bool) (int64, error) {
	query := `
		INSERT INTO owner_portfolios (
			primary_name, normalized_name, name_hash, primary_address,
			normalized_address, is_llc
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name_hash) DO UPDATE SET updated_at = NOW()
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		seed.PrimaryName, seed.NormalizedName, seed.NameHash,
		seed.PrimaryAddress, seed.NormalizedAddress, isLLC,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create portfolio for fingerprint %s: %w", seed.NameHash, err)
	}
	return id, nil
}

func (r *portfolioRepository) AssignContacts(ctx context.Context, tx pgx.Tx) (int64, error) {
	query := `
		UPDATE registration_contacts c
		SET owner_portfolio_id = p.id
		FROM owner_portfolios p
		WHERE p.name_hash = c.name_hash
		  AND c.owner_portfolio_id IS DISTINCT FROM p.id`

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to assign contacts to portfolios: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *portfolioRepository) RefreshStats(ctx context.Context, tx pgx.Tx) error {
	// Buildings reach a portfolio through registration contacts; facts reach
	// a building through its BBL. Orphaned facts (NULL BBL) never contribute.
	query := `
		WITH portfolio_buildings AS (
			SELECT DISTINCT c.owner_portfolio_id AS portfolio_id, reg.bbl
			FROM registration_contacts c
			JOIN hpd_registrations reg ON reg.registration_id = c.registration_id
			WHERE c.owner_portfolio_id IS NOT NULL
		),
		stats AS (
			SELECT
				pb.portfolio_id,
				COUNT(DISTINCT pb.bbl) AS total_buildings,
				COALESCE(SUM(GREATEST(COALESCE(b.total_units, 0), 1)), 0) AS total_units,
				COALESCE(SUM(s.total_violations), 0) AS total_violations,
				COALESCE(SUM(s.total_complaints), 0) AS total_complaints,
				COALESCE(SUM(s.total_evictions), 0) AS total_evictions,
				COALESCE(SUM(s.class_c_violations), 0) AS class_c,
				COALESCE(SUM(s.class_b_violations), 0) AS class_b,
				COALESCE(SUM(s.class_a_violations), 0) AS class_a
			FROM portfolio_buildings pb
			JOIN buildings b ON b.bbl = pb.bbl
			LEFT JOIN building_scores s ON s.bbl = pb.bbl
			GROUP BY pb.portfolio_id
		)
		UPDATE owner_portfolios p
		SET total_buildings  = stats.total_buildings,
			total_units      = stats.total_units,
			total_violations = stats.total_violations,
			total_complaints = stats.total_complaints,
			total_evictions  = stats.total_evictions,
			class_c_violations = stats.class_c,
			class_b_violations = stats.class_b,
			class_a_violations = stats.class_a,
			updated_at       = NOW()
		FROM stats
		WHERE stats.portfolio_id = p.id`

	if _, err := tx.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to refresh portfolio stats: %w", err)
	}
	return nil
}

func (r *portfolioRepository) UpdateScores(ctx context.Context, tx pgx.Tx, updates []PortfolioScoreUpdate) error {
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(
			`UPDATE owner_portfolios
			 SET portfolio_score = $2, portfolio_grade = $3, updated_at = NOW()
			 WHERE id = $1`,
			u.PortfolioID, u.Score, u.Grade)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update portfolio scores: %w", err)
	}
	return nil
}
