package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nycwatch/landlordwatch/internal/cache"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// minPortfolioBuildings keeps single-building owners off the landlord
// leaderboard: one bad building is a building story, not a landlord story.
const minPortfolioBuildings = 2

// leaderboardCachePrefix namespaces leaderboard cache keys so a pipeline run
// can invalidate them all at once.
const leaderboardCachePrefix = "leaderboard:"

// LeaderboardService serves the worst-buildings and worst-landlords
// rankings. Results are cached: leaderboards only change when a pipeline run
// completes, and they back the highest-traffic pages.
type LeaderboardService interface {
	// WorstBuildings returns the highest-scored buildings, optionally
	// filtered to one borough.
	WorstBuildings(ctx context.Context, borough string, limit int) ([]repository.BuildingWithScore, error)

	// WorstLandlords returns the highest-scored portfolios holding more than
	// one building.
	WorstLandlords(ctx context.Context, limit int) ([]models.OwnerPortfolio, error)

	// Invalidate drops every cached leaderboard.
	Invalidate(ctx context.Context)
}

type leaderboardService struct {
	scores     repository.ScoreRepository
	portfolios repository.PortfolioRepository
	cache      cache.Cache
	ttl        time.Duration
	log        *logger.Logger
}

func NewLeaderboardService(scores repository.ScoreRepository, portfolios repository.PortfolioRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) LeaderboardService {
	return &leaderboardService{
		scores:     scores,
		portfolios: portfolios,
		cache:      c,
		ttl:        ttl,
		log:        log,
	}
}

func (s *leaderboardService) WorstBuildings(ctx context.Context, borough string, limit int) ([]repository.BuildingWithScore, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	key := fmt.Sprintf("%sbuildings:%s:%d", leaderboardCachePrefix, borough, limit)
	var cached []repository.BuildingWithScore
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.scores.WorstBuildings(ctx, borough, limit)
	if err != nil {
		s.log.Error("Failed to fetch worst buildings", err, map[string]interface{}{"borough": borough})
		return nil, err
	}

	s.writeCache(ctx, key, results)
	return results, nil
}

func (s *leaderboardService) WorstLandlords(ctx context.Context, limit int) ([]models.OwnerPortfolio, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	key := fmt.Sprintf("%slandlords:%d", leaderboardCachePrefix, limit)
	var cached []models.OwnerPortfolio
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.portfolios.WorstPortfolios(ctx, minPortfolioBuildings, limit)
	if err != nil {
		s.log.Error("Failed to fetch worst landlords", err, nil)
		return nil, err
	}

	s.writeCache(ctx, key, results)
	return results, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) {
	if err := s.cache.ClearPrefix(ctx, leaderboardCachePrefix); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// readCache loads a cached leaderboard into dest. Cache failures degrade to a
// miss rather than failing the request.
func (s *leaderboardService) readCache(ctx context.Context, key string, dest interface{}) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("Dropping undecodable cache entry", map[string]interface{}{"key": key})
		return false
	}
	return true
}

func (s *leaderboardService) writeCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
