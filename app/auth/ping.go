// Package auth contains the registration, verification and login
// endpoints
package auth

import (
	"bitwise74/tracker-api/app/respond"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping tells a client whether its session token is still accepted.
func Ping(c *gin.Context) {
	respond.JSON(c, http.StatusOK, "Success!", nil)
}
