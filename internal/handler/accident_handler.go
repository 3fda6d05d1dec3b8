package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// AccidentHandler handles HTTP requests for road-accident exploration
type AccidentHandler struct {
	accidentService *service.AccidentService
}

// NewAccidentHandler creates a new accident handler
func NewAccidentHandler(accidentService *service.AccidentService) *AccidentHandler {
	return &AccidentHandler{accidentService: accidentService}
}

// GetOverview handles GET /api/v1/accidents/overview
func (h *AccidentHandler) GetOverview(c *gin.Context) {
	overview, err := h.accidentService.GetOverview(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get accident overview", err)
		return
	}
	response.Success(c, overview)
}

// GetTimeDistribution handles GET /api/v1/accidents/time
func (h *AccidentHandler) GetTimeDistribution(c *gin.Context) {
	var filter models.TimeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	counts, err := h.accidentService.GetTimeDistribution(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get time distribution", err)
		return
	}
	response.Success(c, counts)
}

// GetLocationDistribution handles GET /api/v1/accidents/location
func (h *AccidentHandler) GetLocationDistribution(c *gin.Context) {
	var filter models.LocationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	counts, err := h.accidentService.GetLocationDistribution(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get location distribution", err)
		return
	}
	response.Success(c, counts)
}

// GetCrosstab handles GET /api/v1/accidents/crosstab
func (h *AccidentHandler) GetCrosstab(c *gin.Context) {
	var filter models.CrosstabFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	ct, err := h.accidentService.GetCrosstab(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get crosstab", err)
		return
	}
	response.Success(c, ct)
}

// GetHotspots handles GET /api/v1/accidents/hotspots
func (h *AccidentHandler) GetHotspots(c *gin.Context) {
	var filter models.CellFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	cells, err := h.accidentService.GetHotspots(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get hotspots", err)
		return
	}
	response.Success(c, cells)
}
