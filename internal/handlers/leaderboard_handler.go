package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nycwatch/landlordwatch/internal/errors"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// LeaderboardHandler handles worst-buildings and worst-landlords requests.
type LeaderboardHandler struct {
	service services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler instance.
func NewLeaderboardHandler(service services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

// LeaderboardRequest represents the query parameters for leaderboards.
type LeaderboardRequest struct {
	Borough string `form:"borough"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// WorstBuildings handles GET /api/v1/leaderboards/buildings.
func (h *LeaderboardHandler) WorstBuildings(c *gin.Context) {
	var req LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buildings, err := h.service.WorstBuildings(c.Request.Context(), req.Borough, req.Limit)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to fetch building leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": buildings, "count": len(buildings)})
}

// WorstLandlords handles GET /api/v1/leaderboards/landlords.
func (h *LeaderboardHandler) WorstLandlords(c *gin.Context) {
	var req LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	landlords, err := h.service.WorstLandlords(c.Request.Context(), req.Limit)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to fetch landlord leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"landlords": landlords, "count": len(landlords)})
}
