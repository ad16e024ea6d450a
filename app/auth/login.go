package auth

import (
	"bitwise74/tracker-api/app/respond"
	"bitwise74/tracker-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data credentialsBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		respond.Fail(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if data.Password == "" {
		respond.Fail(c, http.StatusBadRequest, "Password field can't be empty")
		return
	}

	token, err := d.Accounts.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, "Successfully logged in!", gin.H{
		"jwtToken": token,
	})
}
