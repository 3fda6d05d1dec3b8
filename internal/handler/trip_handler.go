package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// TripHandler handles HTTP requests for taxi-trip exploration
type TripHandler struct {
	service *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *service.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// GetOverview handles GET /api/v1/trips/overview
func (h *TripHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get trip overview", err)
		return
	}
	response.Success(c, overview)
}

// GetHistogram handles GET /api/v1/trips/histogram
func (h *TripHandler) GetHistogram(c *gin.Context) {
	var filter models.HistogramFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	hist, err := h.service.GetHistogram(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get histogram", err)
		return
	}
	response.Success(c, hist)
}

// GetHourlyAverages handles GET /api/v1/trips/hourly
func (h *TripHandler) GetHourlyAverages(c *gin.Context) {
	hours, err := h.service.GetHourlyAverages(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get hourly averages", err)
		return
	}
	response.Success(c, hours)
}

// GetPassengerBreakdown handles GET /api/v1/trips/passengers
func (h *TripHandler) GetPassengerBreakdown(c *gin.Context) {
	out, err := h.service.GetPassengerBreakdown(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get passenger breakdown", err)
		return
	}
	response.Success(c, out)
}

// GetCorrelation handles GET /api/v1/trips/correlation
func (h *TripHandler) GetCorrelation(c *gin.Context) {
	m, err := h.service.GetCorrelation(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get correlation matrix", err)
		return
	}
	response.Success(c, m)
}

// GetScatter handles GET /api/v1/trips/scatter
func (h *TripHandler) GetScatter(c *gin.Context) {
	var filter models.ScatterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	points, err := h.service.GetScatter(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get scatter sample", err)
		return
	}
	response.Success(c, points)
}

// GetPickupCells handles GET /api/v1/trips/pickup-cells
func (h *TripHandler) GetPickupCells(c *gin.Context) {
	var filter models.CellFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	cells, err := h.service.GetPickupCells(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to get pickup cells", err)
		return
	}
	response.Success(c, cells)
}
