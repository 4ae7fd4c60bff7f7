package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"coverage-miner/internal/metrics"
	"coverage-miner/test/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestServerRoutes(t *testing.T) {
	m := metrics.New()
	m.MethodSkipped()
	logger := (&mocks.MockLogger{}).AllowAll()
	handler := NewServer(m, logger).Handler()

	tests := []struct {
		name     string
		path     string
		wantCode int
		contains string
	}{
		{name: "health", path: "/health", wantCode: http.StatusOK, contains: `"message":"ok"`},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, contains: `miner_methods_total{result="skipped"} 1`},
		{name: "unknown", path: "/nope", wantCode: http.StatusNotFound, contains: "endpoint not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
	logger.AssertCalled(t, "Debug", "[GIN] %s %s %d %s", mock.Anything)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := (&mocks.MockLogger{}).AllowAll()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RecoveryMiddleware(logger))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	logger.AssertCalled(t, "Error", "panic recovered: %s", []any{"boom"})
}

func TestShutdownBeforeStart(t *testing.T) {
	s := NewServer(metrics.New(), (&mocks.MockLogger{}).AllowAll())
	assert.NoError(t, s.Shutdown(context.Background()))
}
