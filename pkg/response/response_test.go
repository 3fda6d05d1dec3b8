package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) { Success(c, map[string]int{"n": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
	require.NotNil(t, body.Data)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		fn   func(*gin.Context, string)
		code int
	}{
		{BadRequest, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{UnprocessableEntity, http.StatusUnprocessableEntity},
		{InternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w, body := record(func(c *gin.Context) { tt.fn(c, "boom") })
		assert.Equal(t, tt.code, w.Code)
		assert.Equal(t, tt.code, body.Code)
		assert.Equal(t, "boom", body.Message)
		assert.Nil(t, body.Data)
	}
}
