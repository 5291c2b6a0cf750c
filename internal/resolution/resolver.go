package resolution

import (
	"context"
	"fmt"

	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// Resolver clusters registration contacts into owner portfolios by their
// deterministic fingerprint. Resolution is idempotent: a re-run over
// unchanged contacts creates no portfolios and reassigns nothing.
type Resolver struct {
	db         *database.Database
	portfolios repository.PortfolioRepository
	log        *logger.Logger
}

func NewResolver(db *database.Database, portfolios repository.PortfolioRepository, log *logger.Logger) *Resolver {
	return &Resolver{
		db:         db,
		portfolios: portfolios,
		log:        log.WithComponent("resolution"),
	}
}

// Run performs one resolution pass: create portfolios for fingerprints that
// have none, link every contact to its portfolio, then recompute portfolio
// aggregates. All three steps share one transaction so a failure leaves the
// previous resolution state intact.
func (r *Resolver) Run(ctx context.Context) error {
	seeds, err := r.portfolios.UnresolvedFingerprints(ctx)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin resolution transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, seed := range seeds {
		if _, err := r.portfolios.CreatePortfolio(ctx, tx, seed, IsLLC(seed.PrimaryName)); err != nil {
			return err
		}
	}

	assigned, err := r.portfolios.AssignContacts(ctx, tx)
	if err != nil {
		return err
	}

	if err := r.portfolios.RefreshStats(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit resolution transaction: %w", err)
	}

	r.log.Info("resolution pass complete", map[string]interface{}{
		"new_portfolios":    len(seeds),
		"contacts_assigned": assigned,
	})
	return nil
}
