// internal/server/router.go - metrics endpoint for long mining runs
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coverage-miner/internal/metrics"
	"coverage-miner/pkg/logger"
)

// Server exposes /metrics and /health while a run is in progress.
type Server interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
	Handler() http.Handler
}

func NewServer(metrics *metrics.Metrics, logger logger.Logger) Server {
	s := &server{
		metrics: metrics,
		logger:  logger,
	}
	s.engine = s.buildEngine()
	return s
}

type server struct {
	engine     *gin.Engine
	metrics    *metrics.Metrics
	logger     logger.Logger
	httpServer *http.Server
}

// Start blocks until the server stops. http.ErrServerClosed is returned after Shutdown.
func (s *server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	s.logger.Info("starting metrics server on %s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *server) Handler() http.Handler {
	return s.engine
}

func (s *server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(RecoveryMiddleware(s.logger))
	engine.Use(LoggingMiddleware(s.logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "ok",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "endpoint not found",
		})
	})
	return engine
}
