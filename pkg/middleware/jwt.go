package middleware

import (
	"bitwise74/tracker-api/internal/store"
	"bitwise74/tracker-api/pkg/security"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"message":    "Unauthorized",
	})
}

// NewSessionMiddleware guards routes with the bearer session token. The
// account must still exist and be verified. On success userID and email
// are set on the context.
func NewSessionMiddleware(signer *security.SessionSigner, users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			unauthorized(c)
			return
		}

		sess, err := signer.Parse(tokenStr)
		if err != nil {
			zap.L().Debug("Rejected session token", zap.Error(err), zap.String("requestID", requestID))
			unauthorized(c)
			return
		}

		user, err := users.FindByID(c.Request.Context(), sess.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"statusCode": http.StatusInternalServerError,
				"message":    "Internal server error",
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if user == nil || !user.Active {
			unauthorized(c)
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}
