package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// MockBuildingRepository is a mock implementation of BuildingRepository for testing
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) GetByBBL(ctx context.Context, bbl string) (*repository.BuildingWithScore, error) {
	args := m.Called(ctx, bbl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BuildingWithScore), args.Error(1)
}

func (m *MockBuildingRepository) Search(ctx context.Context, params repository.BuildingSearchParams) ([]repository.BuildingWithScore, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]repository.BuildingWithScore), args.Int(1), args.Error(2)
}

func (m *MockBuildingRepository) GetViolations(ctx context.Context, bbl string, limit int) ([]models.HPDViolation, error) {
	args := m.Called(ctx, bbl, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HPDViolation), args.Error(1)
}

func (m *MockBuildingRepository) GetComplaints(ctx context.Context, bbl string, limit int) ([]models.Complaint, error) {
	args := m.Called(ctx, bbl, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockBuildingRepository) GetEvictions(ctx context.Context, bbl string) ([]models.Eviction, error) {
	args := m.Called(ctx, bbl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Eviction), args.Error(1)
}

func (m *MockBuildingRepository) GetOwnerPortfolio(ctx context.Context, bbl string) (*models.OwnerPortfolio, error) {
	args := m.Called(ctx, bbl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnerPortfolio), args.Error(1)
}

func TestGetBuilding_Success(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))
	ctx := context.Background()

	expected := &repository.BuildingWithScore{
		Building: models.Building{BBL: "1001500001"},
	}
	mockRepo.On("GetByBBL", ctx, "1001500001").Return(expected, nil)

	result, err := service.GetBuilding(ctx, "1001500001")

	require.NoError(t, err)
	assert.Equal(t, "1001500001", result.Building.BBL)
	mockRepo.AssertExpectations(t)
}

func TestGetBuilding_InvalidBBL(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))

	for _, bbl := range []string{"", "123", "12345678901", "1a01500001"} {
		_, err := service.GetBuilding(context.Background(), bbl)
		assert.ErrorIs(t, err, ErrInvalidBBL, bbl)
	}
	mockRepo.AssertNotCalled(t, "GetByBBL")
}

func TestGetBuilding_NotFound(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))
	ctx := context.Background()

	mockRepo.On("GetByBBL", ctx, "1001500001").Return(nil, nil)

	_, err := service.GetBuilding(ctx, "1001500001")
	assert.ErrorIs(t, err, ErrBuildingNotFound)
}

func TestGetBuilding_RepositoryError(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))
	ctx := context.Background()

	dbErr := errors.New("connection refused")
	mockRepo.On("GetByBBL", ctx, "1001500001").Return(nil, dbErr)

	_, err := service.GetBuilding(ctx, "1001500001")
	assert.ErrorIs(t, err, dbErr)
}

func TestSearchBuildings_ClampsPagination(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))
	ctx := context.Background()

	mockRepo.On("Search", ctx, repository.BuildingSearchParams{
		Borough: "Brooklyn",
		Limit:   MaxPageSize,
		Offset:  0,
	}).Return([]repository.BuildingWithScore{}, 0, nil)

	_, _, err := service.SearchBuildings(ctx, repository.BuildingSearchParams{
		Borough: "Brooklyn",
		Limit:   9999,
		Offset:  -5,
	})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetOwner_NotResolved(t *testing.T) {
	mockRepo := new(MockBuildingRepository)
	service := NewBuildingService(mockRepo, logger.New("test"))
	ctx := context.Background()

	mockRepo.On("GetOwnerPortfolio", ctx, "1001500001").Return(nil, nil)

	_, err := service.GetOwner(ctx, "1001500001")
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}
