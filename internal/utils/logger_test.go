package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLoggerTagsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	router := gin.New()
	router.Use(ContextLogger(logger))
	router.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c, nil).Info("pong")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Contains(t, buf.String(), generated)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestGetLoggerFromContextFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fallback := NewLogger("test")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Same(t, fallback, GetLoggerFromContext(c, fallback))
	assert.NotNil(t, ToSlogLogger(fallback))
}
