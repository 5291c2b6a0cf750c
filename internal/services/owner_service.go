package services

import (
	"context"

	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/models"
	"github.com/nycwatch/landlordwatch/internal/repository"
)

// PortfolioDetail is a portfolio with its buildings attached.
type PortfolioDetail struct {
	Portfolio models.OwnerPortfolio        `json:"portfolio"`
	Buildings []repository.BuildingWithScore `json:"buildings"`
}

// OwnerService defines owner-portfolio lookup business logic.
type OwnerService interface {
	// GetPortfolio retrieves one portfolio with its buildings.
	// Returns ErrOwnerNotFound when the ID is unknown.
	GetPortfolio(ctx context.Context, id int64) (*PortfolioDetail, error)

	// SearchOwners returns portfolios whose name matches, largest first.
	SearchOwners(ctx context.Context, name string, limit int) ([]models.OwnerPortfolio, error)
}

type ownerService struct {
	repo repository.PortfolioRepository
	log  *logger.Logger
}

func NewOwnerService(repo repository.PortfolioRepository, log *logger.Logger) OwnerService {
	return &ownerService{
		repo: repo,
		log:  log,
	}
}

func (s *ownerService) GetPortfolio(ctx context.Context, id int64) (*PortfolioDetail, error) {
	portfolio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch portfolio", err, map[string]interface{}{"portfolio_id": id})
		return nil, err
	}
	if portfolio == nil {
		return nil, ErrOwnerNotFound
	}

	buildings, err := s.repo.GetBuildings(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch portfolio buildings", err, map[string]interface{}{"portfolio_id": id})
		return nil, err
	}

	return &PortfolioDetail{Portfolio: *portfolio, Buildings: buildings}, nil
}

func (s *ownerService) SearchOwners(ctx context.Context, name string, limit int) ([]models.OwnerPortfolio, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return s.repo.Search(ctx, name, limit)
}
