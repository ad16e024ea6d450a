package auth

import (
	"bitwise74/tracker-api/app/respond"
	"bitwise74/tracker-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Verify answers with a rendered page, or JSON when the caller asks for
// it. A failed verification is still a 200.
func Verify(c *gin.Context, d *internal.Deps) {
	res, err := d.Accounts.Verify(c.Request.Context(), c.Query("email"), c.Query("verification"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		respond.JSON(c, http.StatusOK, res.Message, nil)
		return
	}

	c.HTML(http.StatusOK, "email-verification.html", gin.H{
		"statusCode": http.StatusOK,
		"message":    res.Message,
		"active":     res.Active,
	})
}
