package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/nycwatch/landlordwatch/internal/cache"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// MockScoreRepository is a mock implementation of ScoreRepository for testing
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) LoadBuildingFacts(ctx context.Context) ([]repository.BuildingFacts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BuildingFacts), args.Error(1)
}

func (m *MockScoreRepository) ReplaceBuildingScores(ctx context.Context, scores []models.BuildingScore) error {
	return m.Called(ctx, scores).Error(0)
}

func (m *MockScoreRepository) LoadPortfolioBuildingScores(ctx context.Context) ([]repository.PortfolioBuildingScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PortfolioBuildingScore), args.Error(1)
}

func (m *MockScoreRepository) WorstBuildings(ctx context.Context, borough string, limit int) ([]repository.BuildingWithScore, error) {
	args := m.Called(ctx, borough, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BuildingWithScore), args.Error(1)
}

// MockPortfolioRepository is a mock implementation of PortfolioRepository for testing
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) GetByID(ctx context.Context, id int64) (*models.OwnerPortfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnerPortfolio), args.Error(1)
}

func (m *MockPortfolioRepository) GetBuildings(ctx context.Context, id int64) ([]repository.BuildingWithScore, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BuildingWithScore), args.Error(1)
}

func (m *MockPortfolioRepository) Search(ctx context.Context, name string, limit int) ([]models.OwnerPortfolio, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OwnerPortfolio), args.Error(1)
}

func (m *MockPortfolioRepository) WorstPortfolios(ctx context.Context, minBuildings, limit int) ([]models.OwnerPortfolio, error) {
	args := m.Called(ctx, minBuildings, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OwnerPortfolio), args.Error(1)
}

func (m *MockPortfolioRepository) UnresolvedFingerprints(ctx context.Context) ([]repository.PortfolioSeed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PortfolioSeed), args.Error(1)
}

func (m *MockPortfolioRepository) CreatePortfolio(ctx context.Context, tx pgx.Tx, seed repository.PortfolioSeed, isLLC bool) (int64, error) {
	args := m.Called(ctx, tx, seed, isLLC)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPortfolioRepository) AssignContacts(ctx context.Context, tx pgx.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPortfolioRepository) RefreshStats(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPortfolioRepository) UpdateScores(ctx context.Context, tx pgx.Tx, updates []repository.PortfolioScoreUpdate) error {
	return m.Called(ctx, tx, updates).Error(0)
}

func newLeaderboardService(scores *MockScoreRepository, portfolios *MockPortfolioRepository) LeaderboardService {
	return NewLeaderboardService(scores, portfolios, cache.NewMemory(64), time.Minute, logger.New("test"))
}

func TestWorstLandlords_FiltersSingleBuildingOwners(t *testing.T) {
	scores := new(MockScoreRepository)
	portfolios := new(MockPortfolioRepository)
	service := newLeaderboardService(scores, portfolios)
	ctx := context.Background()

	portfolios.On("WorstPortfolios", ctx, minPortfolioBuildings, 10).
		Return([]models.OwnerPortfolio{{ID: 1, TotalBuildings: 12}}, nil)

	results, err := service.WorstLandlords(ctx, 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	portfolios.AssertExpectations(t)
}

func TestWorstBuildings_SecondCallServedFromCache(t *testing.T) {
	scores := new(MockScoreRepository)
	portfolios := new(MockPortfolioRepository)
	service := newLeaderboardService(scores, portfolios)
	ctx := context.Background()

	scores.On("WorstBuildings", ctx, "Brooklyn", 5).
		Return([]repository.BuildingWithScore{
			{Building: models.Building{BBL: "3012340056"}},
		}, nil).Once()

	first, err := service.WorstBuildings(ctx, "Brooklyn", 5)
	require.NoError(t, err)

	second, err := service.WorstBuildings(ctx, "Brooklyn", 5)
	require.NoError(t, err)

	assert.Equal(t, first[0].Building.BBL, second[0].Building.BBL)
	scores.AssertNumberOfCalls(t, "WorstBuildings", 1)
}

func TestInvalidate_DropsCachedLeaderboards(t *testing.T) {
	scores := new(MockScoreRepository)
	portfolios := new(MockPortfolioRepository)
	service := newLeaderboardService(scores, portfolios)
	ctx := context.Background()

	scores.On("WorstBuildings", ctx, "", 5).
		Return([]repository.BuildingWithScore{}, nil).Twice()

	_, err := service.WorstBuildings(ctx, "", 5)
	require.NoError(t, err)

	service.Invalidate(ctx)

	_, err = service.WorstBuildings(ctx, "", 5)
	require.NoError(t, err)
	scores.AssertNumberOfCalls(t, "WorstBuildings", 2)
}
