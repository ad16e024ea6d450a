// Package root contains endpoints that aren't tied to a resource
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat answers liveness probes. It never touches the database or
// the catalogs.
func Heartbeat(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
}
