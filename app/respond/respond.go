// Package respond writes the {statusCode, message, data} envelope every
// endpoint answers with and maps service errors to status codes
package respond

import (
	"bitwise74/tracker-api/internal/errs"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statuses = []struct {
	kind   error
	status int
}{
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrConflict, http.StatusConflict},
	{errs.ErrUnauthorized, http.StatusUnauthorized},
	{errs.ErrAlreadyVerified, http.StatusUnprocessableEntity},
	{errs.ErrInvalidRange, http.StatusBadRequest},
	{errs.ErrInvalidInput, http.StatusBadRequest},
	{errs.ErrUpstreamAuth, http.StatusBadGateway},
	{errs.ErrUpstreamRequest, http.StatusBadGateway},
	{errs.ErrEmailUnreachable, http.StatusNotFound},
}

// Status returns the HTTP status for err.
func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.kind) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

// JSON writes a success envelope. data is omitted when nil.
func JSON(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{
		"statusCode": status,
		"message":    message,
	}

	if data != nil {
		body["data"] = data
	}

	c.JSON(status, body)
}

// Fail writes an error envelope with a fixed message.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    message,
	})
}

// Error maps err to its status and message. Internal errors are logged and
// their details never reach the caller.
func Error(c *gin.Context, err error) {
	status := Status(err)
	msg := errs.Message(err)

	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("requestID", c.GetString("requestID")))
	}

	if status == http.StatusInternalServerError || msg == "" {
		msg = http.StatusText(status)
		if status == http.StatusInternalServerError {
			msg = "Internal server error"
		}
	}

	Fail(c, status, msg)
}
