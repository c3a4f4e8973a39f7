package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Readiness returns the readiness handler. The check reports whether the
// downstream credentials required by the capture pipeline are configured; it
// does not dial the downstreams.
func Readiness(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":    false,
				"error": "Service not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
