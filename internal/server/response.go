package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response body carries the "ok" discriminator. Error bodies expose a
// single generic message; failure detail stays in logs and metrics.

// RespondOK sends a 200 response with ok=true and the given extra fields.
func RespondOK(c *gin.Context, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// RespondError sends an error response with ok=false and a caller-safe message.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": message})
}
