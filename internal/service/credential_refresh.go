package service

import (
	"bitwise74/tracker-api/internal/catalog"
	"context"
	"time"

	"go.uber.org/zap"
)

// CredentialRefresh periodically refreshes the secondary catalog token so
// it doesn't expire while no requests come in. It stops when ctx is done.
func CredentialRefresh(ctx context.Context, t time.Duration, tokens *catalog.TokenService) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Credential refresh attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tokens.Refresh(ctx); err != nil {
					zap.L().Error("Scheduled TVDB token refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
