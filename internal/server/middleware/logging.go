package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voice-capture/internal/logger"
)

// RequestLogger returns middleware that logs every request with method, path,
// status code, and duration. Probe paths are silently skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbeEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString(RequestIDKey),
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

func isProbeEndpoint(path string) bool {
	return path == "/health" || path == "/ready"
}
