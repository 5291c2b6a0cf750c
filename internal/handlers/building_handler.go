package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/nycwatch/landlordwatch/internal/errors"
	"github.com/nycwatch/landlordwatch/internal/repository"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// BuildingHandler handles building-related HTTP requests.
type BuildingHandler struct {
	service services.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler instance.
func NewBuildingHandler(service services.BuildingService) *BuildingHandler {
	return &BuildingHandler{
		service: service,
	}
}

// SearchRequest represents the query parameters for the building search
// endpoint.
type SearchRequest struct {
	Borough string `form:"borough"`
	Address string `form:"address"`
	Grade   string `form:"grade" binding:"omitempty,oneof=A B C D F"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}

// SearchResponse represents the paginated building search response.
type SearchResponse struct {
	Buildings []repository.BuildingWithScore `json:"buildings"`
	Total     int                            `json:"total"`
	Limit     int                            `json:"limit"`
	Offset    int                            `json:"offset"`
}

// RecordsRequest bounds the per-building record listings.
type RecordsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Get handles GET /api/v1/buildings/:bbl.
// It returns the building with its risk score.
func (h *BuildingHandler) Get(c *gin.Context) {
	building, err := h.service.GetBuilding(c.Request.Context(), c.Param("bbl"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

// Search handles GET /api/v1/buildings.
// It returns buildings matching the filters, worst score first.
func (h *BuildingHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buildings, total, err := h.service.SearchBuildings(c.Request.Context(), repository.BuildingSearchParams{
		Borough: req.Borough,
		Address: req.Address,
		Grade:   req.Grade,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search buildings", err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = services.DefaultPageSize
	}
	c.JSON(http.StatusOK, SearchResponse{
		Buildings: buildings,
		Total:     total,
		Limit:     limit,
		Offset:    req.Offset,
	})
}

// Violations handles GET /api/v1/buildings/:bbl/violations.
func (h *BuildingHandler) Violations(c *gin.Context) {
	var req RecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	violations, err := h.service.GetViolations(c.Request.Context(), c.Param("bbl"), req.Limit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"violations": violations, "count": len(violations)})
}

// Complaints handles GET /api/v1/buildings/:bbl/complaints.
func (h *BuildingHandler) Complaints(c *gin.Context) {
	var req RecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	complaints, err := h.service.GetComplaints(c.Request.Context(), c.Param("bbl"), req.Limit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

// Evictions handles GET /api/v1/buildings/:bbl/evictions.
func (h *BuildingHandler) Evictions(c *gin.Context) {
	evictions, err := h.service.GetEvictions(c.Request.Context(), c.Param("bbl"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evictions": evictions, "count": len(evictions)})
}

// Owner handles GET /api/v1/buildings/:bbl/owner.
// It returns the resolved owner portfolio for the building.
func (h *BuildingHandler) Owner(c *gin.Context) {
	portfolio, err := h.service.GetOwner(c.Request.Context(), c.Param("bbl"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// renderError maps service-level errors to HTTP responses.
func (h *BuildingHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidBBL):
		apierrors.BadRequest(c, "BBL must be exactly 10 digits", nil)
	case errors.Is(err, services.ErrBuildingNotFound):
		apierrors.NotFound(c, "Building not found")
	case errors.Is(err, services.ErrOwnerNotFound):
		apierrors.NotFound(c, "No resolved owner for this building")
	default:
		apierrors.InternalServerError(c, "Failed to fetch building data", err)
	}
}

// bindError renders a query-binding failure.
func bindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, "Invalid query parameters", map[string]interface{}{
		"error": err.Error(),
	})
}
