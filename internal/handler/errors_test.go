package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pzaman/portfolio-backend-go/internal/ingest"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
	"github.com/pzaman/portfolio-backend-go/internal/service"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: time dimension %q", service.ErrInvalidDimension, "decade"), http.StatusBadRequest},
		{service.ErrInvalidParameter, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", ingest.ErrUnknownDataset, "x"), http.StatusBadRequest},
		{fmt.Errorf("%w: num_acc", ingest.ErrMissingColumn), http.StatusBadRequest},
		{fmt.Errorf("%w: speed", risk.ErrUnknownAttribute), http.StatusNotFound},
		{service.ErrProfileNotFound, http.StatusNotFound},
		{fmt.Errorf("load weather frequencies: %w", risk.ErrInsufficientData), http.StatusUnprocessableEntity},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, "Failed", tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, "Failed to get trips", errors.New("near \"SELEC\": syntax error"))
	assert.Contains(t, w.Body.String(), "Failed to get trips")
	assert.NotContains(t, w.Body.String(), "syntax error")
}
