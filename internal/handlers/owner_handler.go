package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nycwatch/landlordwatch/internal/errors"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// OwnerHandler handles owner-portfolio HTTP requests.
type OwnerHandler struct {
	service services.OwnerService
}

// NewOwnerHandler creates a new OwnerHandler instance.
func NewOwnerHandler(service services.OwnerService) *OwnerHandler {
	return &OwnerHandler{
		service: service,
	}
}

// OwnerSearchRequest represents the query parameters for owner search.
type OwnerSearchRequest struct {
	Name  string `form:"name" binding:"required,min=2"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Get handles GET /api/v1/owners/:id.
// It returns the portfolio with its buildings.
func (h *OwnerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Owner ID must be an integer", nil)
		return
	}

	detail, err := h.service.GetPortfolio(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			apierrors.NotFound(c, "Owner portfolio not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch owner portfolio", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search handles GET /api/v1/owners.
// It returns portfolios matching the name, largest holdings first.
func (h *OwnerHandler) Search(c *gin.Context) {
	var req OwnerSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	owners, err := h.service.SearchOwners(c.Request.Context(), req.Name, req.Limit)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to search owners", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners, "count": len(owners)})
}
