package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voice-capture/internal/logger"
)

// DrainGate rejects new requests once the process starts draining. Requests
// already past the gate run to completion. /health stays reachable so probes
// can observe the draining state instead of a blind 503.
func DrainGate(state DrainState, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state.IsDraining() && c.Request.URL.Path != "/health" {
			log.Warn("Request rejected, service draining", map[string]interface{}{
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
				"request_id": c.GetString(RequestIDKey),
			})
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"ok":    false,
				"error": "Service is shutting down",
			})
			return
		}
		c.Next()
	}
}
