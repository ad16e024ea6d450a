package auth

import (
	"bitwise74/tracker-api/app/respond"
	"bitwise74/tracker-api/internal"
	"bitwise74/tracker-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data credentialsBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	sentTo, err := d.Accounts.Register(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, "A verification email was sent to: "+sentTo, nil)
}
