package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tokenRefresher interface {
	RefreshAsync(ctx context.Context) <-chan error
}

// NewCatalogRefreshMiddleware starts a secondary catalog token refresh for
// every request that passes through it. The request never waits for it,
// failures are only logged.
func NewCatalogRefreshMiddleware(r tokenRefresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		errc := r.RefreshAsync(c.Request.Context())
		requestID := c.GetString("requestID")

		go func() {
			if err := <-errc; err != nil {
				zap.L().Warn("TVDB token refresh failed", zap.Error(err), zap.String("requestID", requestID))
			}
		}()

		c.Next()
	}
}
