// Package endpoint provides the liveness and readiness probe handlers.
package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DrainState reports whether the process is draining.
type DrainState interface {
	IsDraining() bool
}

// Health returns the liveness handler. It reports 200 while the process
// accepts work and 503 with shuttingDown once draining starts, so
// orchestrators route traffic away before the listener closes.
func Health(state DrainState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state.IsDraining() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":           false,
				"shuttingDown": true,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
