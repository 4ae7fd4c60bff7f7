// internal/server/middleware.go - request middleware
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coverage-miner/pkg/logger"
)

// RecoveryMiddleware turns a panicking handler into a 500.
func RecoveryMiddleware(logger logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered: %s", fmt.Sprint(recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "internal server error",
		})
	})
}

// LoggingMiddleware logs scrapes at debug level, everything else at info.
func LoggingMiddleware(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if path == "/metrics" && statusCode == http.StatusOK {
			logger.Debug("[GIN] %s %s %d %s", c.Request.Method, path, statusCode, latency)
			return
		}
		logger.Info("[GIN] %s %s %d %s %s",
			c.Request.Method,
			path,
			statusCode,
			latency,
			c.ClientIP(),
		)
	}
}
