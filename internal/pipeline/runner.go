package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

// Resolver groups ownership contacts into portfolios after extraction.
type Resolver interface {
	Run(ctx context.Context) error
}

// Scorer computes building and portfolio risk scores after resolution.
type Scorer interface {
	Run(ctx context.Context) error
}

// RunOptions tunes a single extractor run.
type RunOptions struct {
	// FullRefresh truncates the target table before loading.
	FullRefresh bool
	// StartOffset resumes a run partway through the source dataset.
	StartOffset int
	// BatchSize overrides the default rows-per-upsert when positive.
	BatchSize int
}

// Runner drives the pipeline: extractors in dependency order, then identity
// resolution, then scoring.
type Runner struct {
	db       *database.Database
	client   *socrata.Client
	registry map[string]Strategy
	resolver Resolver
	scorer   Scorer
	log      *logger.Logger
}

func NewRunner(db *database.Database, client *socrata.Client, registry map[string]Strategy, resolver Resolver, scorer Scorer, log *logger.Logger) *Runner {
	return &Runner{
		db:       db,
		client:   client,
		registry: registry,
		resolver: resolver,
		scorer:   scorer,
		log:      log.WithComponent("pipeline"),
	}
}

// RunExtractor runs one named extractor to completion. Batches are written
// inside a transaction that is rotated every commitInterval batches, so a
// mid-run failure loses at most the uncommitted tail and the run can resume
// from the last logged offset.
func (r *Runner) RunExtractor(ctx context.Context, name string, opts RunOptions) error {
	s, err := Lookup(r.registry, name)
	if err != nil {
		return err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	log := r.log.With(map[string]interface{}{
		"extractor": name,
		"dataset":   s.DatasetID(),
		"table":     s.Table(),
	})
	log.Info("starting extractor", map[string]interface{}{
		"full_refresh": opts.FullRefresh,
		"start_offset": opts.StartOffset,
	})

	start := time.Now()
	err = r.runExtraction(ctx, s, opts, batchSize, log)
	stageDurationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		stageRunsTotal.WithLabelValues(name, "error").Inc()
		return err
	}
	stageRunsTotal.WithLabelValues(name, "success").Inc()
	log.Info("extractor finished", map[string]interface{}{
		"duration": time.Since(start).String(),
	})
	return nil
}

// shouldTruncate reports whether a full refresh truncates the strategy's
// target table. Enrich-only strategies are exempt: a full refresh of
// buildings already happened at the buildings stage, and truncating again
// would leave an update-only writer with no rows to update.
func shouldTruncate(s Strategy, fullRefresh bool) bool {
	if !fullRefresh {
		return false
	}
	_, enrich := s.(enrichOnly)
	return !enrich
}

func (r *Runner) runExtraction(ctx context.Context, s Strategy, opts RunOptions, batchSize int, log *logger.Logger) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if shouldTruncate(s, opts.FullRefresh) {
		if _, err := tx.Exec(ctx, "TRUNCATE "+s.Table()+" CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", s.Table(), err)
		}
		log.Warn("truncated table for full refresh", nil)
	}

	var (
		batchesSinceCommit int
		totalRows          int
	)

	processed, err := r.client.FetchBatches(ctx, s.DatasetID(), batchSize, opts.StartOffset, s.Query(), func(batch []socrata.RawRecord) error {
		rows := make([]Row, 0, len(batch))
		for _, rec := range batch {
			row, terr := s.Transform(rec)
			if terr != nil {
				recordsSkippedTotal.WithLabelValues(s.Name(), "malformed").Inc()
				log.Warn("skipping malformed record", map[string]interface{}{
					"error": terr.Error(),
				})
				continue
			}
			if row == nil {
				recordsSkippedTotal.WithLabelValues(s.Name(), "missing_key").Inc()
				continue
			}
			rows = append(rows, row)
		}

		rows = dedupeRows(rows, s.KeyColumns())
		if err := writeBatch(ctx, tx, s, rows); err != nil {
			return err
		}

		totalRows += len(rows)
		recordsProcessedTotal.WithLabelValues(s.Name()).Add(float64(len(rows)))

		batchesSinceCommit++
		if batchesSinceCommit >= commitInterval {
			if err := tx.Commit(ctx); err != nil {
				tx = nil
				return fmt.Errorf("failed to commit batch group: %w", err)
			}
			log.Info("committed batch group", map[string]interface{}{
				"rows_written": totalRows,
			})
			if tx, err = r.db.Begin(ctx); err != nil {
				tx = nil
				return fmt.Errorf("failed to begin transaction: %w", err)
			}
			batchesSinceCommit = 0
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("extraction of %s failed: %w", s.Name(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		tx = nil
		return fmt.Errorf("failed to commit final batch group: %w", err)
	}
	tx = nil

	log.Info("extraction complete", map[string]interface{}{
		"records_fetched": processed,
		"rows_written":    totalRows,
	})
	return nil
}

// RunResolution runs identity resolution as its own stage.
func (r *Runner) RunResolution(ctx context.Context) error {
	return r.runStage(ctx, "resolution", r.resolver.Run)
}

// RunScoring runs risk scoring as its own stage.
func (r *Runner) RunScoring(ctx context.Context) error {
	return r.runStage(ctx, "scoring", r.scorer.Run)
}

func (r *Runner) runStage(ctx context.Context, stage string, fn func(context.Context) error) error {
	r.log.Info("starting stage", map[string]interface{}{"stage": stage})
	start := time.Now()
	err := fn(ctx)
	stageDurationSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		stageRunsTotal.WithLabelValues(stage, "error").Inc()
		return fmt.Errorf("%s stage failed: %w", stage, err)
	}
	stageRunsTotal.WithLabelValues(stage, "success").Inc()
	r.log.Info("stage finished", map[string]interface{}{
		"stage":    stage,
		"duration": time.Since(start).String(),
	})
	return nil
}

// RunAll runs every extractor in LoadOrder, then resolution, then scoring.
// The first failure aborts the run; committed work from earlier extractors
// is kept. A resume offset only makes sense for a single dataset, so it is
// discarded here.
func (r *Runner) RunAll(ctx context.Context, opts RunOptions) error {
	opts.StartOffset = 0
	for _, name := range LoadOrder {
		if err := r.RunExtractor(ctx, name, opts); err != nil {
			return err
		}
	}
	if err := r.RunResolution(ctx); err != nil {
		return err
	}
	return r.RunScoring(ctx)
}
