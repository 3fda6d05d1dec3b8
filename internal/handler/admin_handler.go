package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// AdminHandler handles the authenticated maintenance endpoints
type AdminHandler struct {
	riskService    *service.RiskService
	ingestService  *service.IngestService
	maxUploadBytes int64
}

// NewAdminHandler creates a new admin handler. Uploads larger than
// maxUploadBytes are rejected.
func NewAdminHandler(riskService *service.RiskService, ingestService *service.IngestService, maxUploadBytes int64) *AdminHandler {
	return &AdminHandler{
		riskService:    riskService,
		ingestService:  ingestService,
		maxUploadBytes: maxUploadBytes,
	}
}

// RefreshRisk handles POST /api/v1/admin/risk/refresh
func (h *AdminHandler) RefreshRisk(c *gin.Context) {
	if err := h.riskService.Refresh(c.Request.Context()); err != nil {
		respondError(c, "Failed to refresh risk tables", err)
		return
	}
	response.Success(c, gin.H{"loaded_at": h.riskService.LoadedAt()})
}

// Ingest handles POST /api/v1/admin/ingest/:dataset
func (h *AdminHandler) Ingest(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		response.BadRequest(c, "Missing multipart field \"file\"")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, "Failed to open upload", err)
		return
	}
	defer f.Close()

	batch, err := h.ingestService.Import(c.Request.Context(), c.Param("dataset"), fh.Filename, f)
	if err != nil {
		respondError(c, "Failed to import dataset", err)
		return
	}
	response.Success(c, batch)
}

// ListBatches handles GET /api/v1/admin/ingest/batches
func (h *AdminHandler) ListBatches(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	batches, err := h.ingestService.ListBatches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "Failed to list import batches", err)
		return
	}
	response.Success(c, batches)
}
