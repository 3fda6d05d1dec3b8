package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/ingest"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
	"github.com/pzaman/portfolio-backend-go/internal/service"
	"github.com/pzaman/portfolio-backend-go/pkg/response"
)

// respondError maps a service error onto a status code. Unknown errors are
// logged and reported as 500 with a generic message.
func respondError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrInvalidDimension),
		errors.Is(err, service.ErrInvalidParameter),
		errors.Is(err, ingest.ErrUnknownDataset),
		errors.Is(err, ingest.ErrMissingColumn):
		response.BadRequest(c, err.Error())
	case errors.Is(err, risk.ErrUnknownAttribute),
		errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, risk.ErrInsufficientData),
		errors.Is(err, risk.ErrMalformedTable):
		response.UnprocessableEntity(c, err.Error())
	default:
		slog.Error(msg, "error", err, "path", c.FullPath())
		response.InternalError(c, msg)
	}
}
