package scoring

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// TxBeginner opens the transaction the portfolio update runs in.
// *database.Database satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Engine recomputes every building and portfolio score from the fact tables.
// Scoring is a full replace, not an incremental update: percentiles depend on
// the whole distribution, so partial recomputes would leave stale ranks.
type Engine struct {
	db         TxBeginner
	scores     repository.ScoreRepository
	portfolios repository.PortfolioRepository
	log        *logger.Logger
}

func NewEngine(db TxBeginner, scores repository.ScoreRepository, portfolios repository.PortfolioRepository, log *logger.Logger) *Engine {
	return &Engine{
		db:         db,
		scores:     scores,
		portfolios: portfolios,
		log:        log.WithComponent("scoring"),
	}
}

// Run scores every building, replaces the building_scores table, then
// refreshes portfolio aggregates and rolls the new scores up to portfolios.
func (e *Engine) Run(ctx context.Context) error {
	facts, err := e.scores.LoadBuildingFacts(ctx)
	if err != nil {
		return err
	}

	scores := make([]models.BuildingScore, len(facts))
	boroughs := make(map[string]*string, len(facts))
	for i, f := range facts {
		scores[i] = ScoreBuilding(f)
		boroughs[f.BBL] = f.Borough
	}
	ApplyPercentiles(scores, boroughs)

	if err := e.scores.ReplaceBuildingScores(ctx, scores); err != nil {
		return err
	}
	e.log.Info("building scores replaced", map[string]interface{}{
		"buildings": len(scores),
	})

	return e.scorePortfolios(ctx)
}

func (e *Engine) scorePortfolios(ctx context.Context) error {
	buildingScores, err := e.scores.LoadPortfolioBuildingScores(ctx)
	if err != nil {
		return err
	}

	byPortfolio := make(map[int64][]repository.PortfolioBuildingScore)
	for _, bs := range buildingScores {
		byPortfolio[bs.PortfolioID] = append(byPortfolio[bs.PortfolioID], bs)
	}

	updates := make([]repository.PortfolioScoreUpdate, 0, len(byPortfolio))
	for id, buildings := range byPortfolio {
		score := PortfolioScore(buildings)
		updates = append(updates, repository.PortfolioScoreUpdate{
			PortfolioID: id,
			Score:       score,
			Grade:       Grade(score),
		})
	}
	// Deterministic write order keeps runs comparable in the statement log.
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].PortfolioID < updates[j].PortfolioID
	})

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin portfolio score update: %w", err)
	}
	defer tx.Rollback(ctx)

	// Portfolio stats aggregate from building_scores, so they must be
	// recomputed now that the score table has been replaced. Resolution
	// refreshed them too, but against the previous run's scores.
	if err := e.portfolios.RefreshStats(ctx, tx); err != nil {
		return err
	}
	if err := e.portfolios.UpdateScores(ctx, tx, updates); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit portfolio scores: %w", err)
	}

	e.log.Info("portfolio scores updated", map[string]interface{}{
		"portfolios": len(updates),
	})
	return nil
}
