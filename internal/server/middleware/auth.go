package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voice-capture/internal/logger"
	"github.com/skillsenselab/voice-capture/internal/observability"
)

// AuthConfig configures the static bearer-token authentication middleware.
type AuthConfig struct {
	// Token is the expected ingestion token. Comparison is constant-time.
	Token    string
	Recorder *observability.Recorder
	Log      *logger.Logger
}

// BearerAuth returns a Gin middleware that validates the Authorization header
// against the configured static token. Rejection reasons go to the metric
// side channel only; callers get generic 401 messages.
func BearerAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			cfg.Recorder.RecordAuthFailure(c.Request.Context(), "missing_auth_header")
			cfg.Log.Warn("Authorization header missing or malformed", map[string]interface{}{
				"request_id": c.GetString(RequestIDKey),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Missing or invalid Authorization header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
			cfg.Recorder.RecordAuthFailure(c.Request.Context(), "invalid_token")
			cfg.Log.Warn("Rejected invalid ingestion token", map[string]interface{}{
				"request_id": c.GetString(RequestIDKey),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Invalid token",
			})
			return
		}

		c.Next()
	}
}
