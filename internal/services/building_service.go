package services

import (
	"context"
	"errors"

	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// Pagination limits for building search.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Service-level errors
var (
	ErrInvalidBBL       = errors.New("bbl must be exactly 10 digits")
	ErrBuildingNotFound = errors.New("building not found")
	ErrOwnerNotFound    = errors.New("owner portfolio not found")
)

// BuildingService defines building lookup and search business logic.
type BuildingService interface {
	// GetBuilding retrieves one building with its score.
	// Returns ErrInvalidBBL for a malformed BBL and ErrBuildingNotFound when
	// the BBL is unknown.
	GetBuilding(ctx context.Context, bbl string) (*repository.BuildingWithScore, error)

	// SearchBuildings returns buildings matching the filters plus the total
	// match count. Limit is clamped to MaxPageSize.
	SearchBuildings(ctx context.Context, params repository.BuildingSearchParams) ([]repository.BuildingWithScore, int, error)

	// GetViolations returns the building's HPD violations.
	GetViolations(ctx context.Context, bbl string, limit int) ([]models.HPDViolation, error)

	// GetComplaints returns the building's 311 complaints.
	GetComplaints(ctx context.Context, bbl string, limit int) ([]models.Complaint, error)

	// GetEvictions returns the building's evictions.
	GetEvictions(ctx context.Context, bbl string) ([]models.Eviction, error)

	// GetOwner resolves the building's owner portfolio.
	// Returns ErrOwnerNotFound when the building has no resolved owner.
	GetOwner(ctx context.Context, bbl string) (*models.OwnerPortfolio, error)
}

type buildingService struct {
	repo repository.BuildingRepository
	log  *logger.Logger
}

func NewBuildingService(repo repository.BuildingRepository, log *logger.Logger) BuildingService {
	return &buildingService{
		repo: repo,
		log:  log,
	}
}

// validBBL reports whether s is a well-formed 10-digit BBL.
func validBBL(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (s *buildingService) GetBuilding(ctx context.Context, bbl string) (*repository.BuildingWithScore, error) {
	if !validBBL(bbl) {
		return nil, ErrInvalidBBL
	}

	building, err := s.repo.GetByBBL(ctx, bbl)
	if err != nil {
		s.log.Error("Failed to fetch building", err, map[string]interface{}{"bbl": bbl})
		return nil, err
	}
	if building == nil {
		return nil, ErrBuildingNotFound
	}
	return building, nil
}

func (s *buildingService) SearchBuildings(ctx context.Context, params repository.BuildingSearchParams) ([]repository.BuildingWithScore, int, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	results, total, err := s.repo.Search(ctx, params)
	if err != nil {
		s.log.Error("Failed to search buildings", err, map[string]interface{}{
			"borough": params.Borough,
			"address": params.Address,
		})
		return nil, 0, err
	}
	return results, total, nil
}

func (s *buildingService) GetViolations(ctx context.Context, bbl string, limit int) ([]models.HPDViolation, error) {
	if !validBBL(bbl) {
		return nil, ErrInvalidBBL
	}
	return s.repo.GetViolations(ctx, bbl, limit)
}

func (s *buildingService) GetComplaints(ctx context.Context, bbl string, limit int) ([]models.Complaint, error) {
	if !validBBL(bbl) {
		return nil, ErrInvalidBBL
	}
	return s.repo.GetComplaints(ctx, bbl, limit)
}

func (s *buildingService) GetEvictions(ctx context.Context, bbl string) ([]models.Eviction, error) {
	if !validBBL(bbl) {
		return nil, ErrInvalidBBL
	}
	return s.repo.GetEvictions(ctx, bbl)
}

func (s *buildingService) GetOwner(ctx context.Context, bbl string) (*models.OwnerPortfolio, error) {
	if !validBBL(bbl) {
		return nil, ErrInvalidBBL
	}

	portfolio, err := s.repo.GetOwnerPortfolio(ctx, bbl)
	if err != nil {
		s.log.Error("Failed to resolve building owner", err, map[string]interface{}{"bbl": bbl})
		return nil, err
	}
	if portfolio == nil {
		return nil, ErrOwnerNotFound
	}
	return portfolio, nil
}
