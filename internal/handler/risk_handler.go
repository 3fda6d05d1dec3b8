package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// RiskHandler handles HTTP requests for the accident risk calculator
type RiskHandler struct {
	riskService *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskService *service.RiskService) *RiskHandler {
	return &RiskHandler{riskService: riskService}
}

// GetOptions handles GET /api/v1/risk/options
func (h *RiskHandler) GetOptions(c *gin.Context) {
	opts, err := h.riskService.Options(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to get risk options", err)
		return
	}
	response.Success(c, opts)
}

// GetScore handles GET /api/v1/risk/score
func (h *RiskHandler) GetScore(c *gin.Context) {
	var params models.RiskQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	h.score(c, params.Query())
}

// PostScore handles POST /api/v1/risk/score
func (h *RiskHandler) PostScore(c *gin.Context) {
	var q risk.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	h.score(c, q)
}

func (h *RiskHandler) score(c *gin.Context, q risk.Query) {
	assessment, err := h.riskService.Score(c.Request.Context(), q)
	if err != nil {
		respondError(c, "Failed to compute risk score", err)
		return
	}
	response.Success(c, assessment)
}

// GetDistribution handles GET /api/v1/risk/distribution/:attribute
func (h *RiskHandler) GetDistribution(c *gin.Context) {
	a, err := risk.ParseAttribute(c.Param("attribute"))
	if err != nil {
		respondError(c, "Unknown attribute", err)
		return
	}
	d, err := h.riskService.Distribution(c.Request.Context(), a)
	if err != nil {
		respondError(c, "Failed to get risk distribution", err)
		return
	}
	response.Success(c, d)
}
