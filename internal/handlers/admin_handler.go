package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nycwatch/landlordwatch/internal/errors"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// AdminHandler handles pipeline trigger and status requests.
type AdminHandler struct {
	service services.PipelineService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(service services.PipelineService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// TriggerRequest represents the body of a pipeline trigger request.
type TriggerRequest struct {
	Extractor   string `json:"extractor"`
	FullRefresh bool   `json:"fullRefresh"`
	StartOffset int    `json:"startOffset" binding:"omitempty,min=0"`
}

// Trigger handles POST /api/v1/admin/pipeline/run.
// It starts a pipeline run in the background and returns 202 Accepted.
func (h *AdminHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		bindError(c, err)
		return
	}

	err := h.service.Trigger(services.TriggerParams{
		Extractor:   req.Extractor,
		FullRefresh: req.FullRefresh,
		StartOffset: req.StartOffset,
	})
	if err != nil {
		if errors.Is(err, services.ErrPipelineBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		apierrors.InternalServerError(c, "Failed to trigger pipeline", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// Status handles GET /api/v1/admin/pipeline/status.
func (h *AdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}
