package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nycwatch/landlordwatch/internal/config"
	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/pipeline"
	"github.com/nycwatch/landlordwatch/internal/repository"
	"github.com/nycwatch/landlordwatch/internal/resolution"
	"github.com/nycwatch/landlordwatch/internal/scoring"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

func main() {
	var (
		extractor      = flag.String("extractor", "", "run a single extractor by name (default: run everything)")
		fullRefresh    = flag.Bool("full-refresh", false, "truncate target tables before loading")
		startOffset    = flag.Int("offset", 0, "resume extraction from this source offset")
		resolutionOnly = flag.Bool("resolution", false, "run identity resolution only")
		scoringOnly    = flag.Bool("scoring", false, "run scoring only")
	)
	flag.Parse()

	if *startOffset > 0 && *extractor == "" {
		fmt.Fprintln(os.Stderr, "-offset requires -extractor: a resume offset only applies to a single dataset")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)

	// Ctrl-C cancels the run; committed batch groups stay committed and the
	// logged offsets allow resuming with -offset.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, nil)
	}
	defer db.Close()

	portfolioRepo := repository.NewPortfolioRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	client := socrata.NewClient(cfg.Socrata, log)
	registry := pipeline.NewRegistry(cfg.Datasets)
	resolver := resolution.NewResolver(db, portfolioRepo, log)
	engine := scoring.NewEngine(db, scoreRepo, portfolioRepo, log)
	runner := pipeline.NewRunner(db, client, registry, resolver, engine, log)

	opts := pipeline.RunOptions{
		FullRefresh: *fullRefresh,
		StartOffset: *startOffset,
	}

	switch {
	case *resolutionOnly:
		err = runner.RunResolution(ctx)
	case *scoringOnly:
		err = runner.RunScoring(ctx)
	case *extractor != "":
		err = runner.RunExtractor(ctx, *extractor, opts)
	default:
		err = runner.RunAll(ctx, opts)
	}

	if err != nil {
		log.Fatal("Pipeline run failed", err, nil)
	}
	log.Info("Pipeline run complete", nil)
}
