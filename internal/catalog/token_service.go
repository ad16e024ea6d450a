package catalog

import (
	"bitwise74/tracker-api/internal/errs"
	"bitwise74/tracker-api/internal/metrics"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TokenService keeps the secondary catalog token in the CredentialStore
// valid. A failed login or refresh never overwrites the stored token.
type TokenService struct {
	tvdb  *TVDB
	creds *CredentialStore
	group singleflight.Group

	// minInterval skips piggyback refreshes while the stored token is
	// younger than this. 0 refreshes on every call.
	minInterval time.Duration
	timeout     time.Duration
}

func NewTokenService(tvdb *TVDB, creds *CredentialStore, minInterval, timeout time.Duration) *TokenService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TokenService{
		tvdb:        tvdb,
		creds:       creds,
		minInterval: minInterval,
		timeout:     timeout,
	}
}

// Acquire logs in with the account credentials and stores the token.
func (s *TokenService) Acquire(ctx context.Context) error {
	token, err := s.tvdb.Login(ctx)
	if err != nil {
		metrics.CredentialRefreshes.WithLabelValues("login", "failure").Inc()
		return errs.Wrap(errs.ErrUpstreamAuth, "Couldn't get a token from the TVDB api", err)
	}

	s.store(token)
	metrics.CredentialRefreshes.WithLabelValues("login", "success").Inc()

	zap.L().Debug("TVDB token acquired")
	return nil
}

// Refresh exchanges the stored token for a new one. Without a stored
// token, or when the catalog rejects it as expired, it falls back to
// Acquire.
func (s *TokenService) Refresh(ctx context.Context) error {
	current := s.creds.Token()
	if current == "" {
		return s.Acquire(ctx)
	}

	token, err := s.tvdb.Refresh(ctx, current)
	if err != nil {
		metrics.CredentialRefreshes.WithLabelValues("refresh", "failure").Inc()

		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			zap.L().Debug("TVDB rejected the stored token, logging in again")
			return s.Acquire(ctx)
		}

		return errs.Wrap(errs.ErrUpstreamAuth, "Couldn't refresh the TVDB token", err)
	}

	s.store(token)
	metrics.CredentialRefreshes.WithLabelValues("refresh", "success").Inc()

	return nil
}

// RefreshAsync refreshes the token in the background and reports the
// outcome on the returned channel, which receives exactly one value and
// is then closed. The refresh outlives ctx's cancellation so a finished
// request doesn't abort it. Concurrent calls share one upstream request.
func (s *TokenService) RefreshAsync(ctx context.Context) <-chan error {
	errc := make(chan error, 1)

	if s.minInterval > 0 && time.Since(s.creds.StoredAt()) < s.minInterval {
		errc <- nil
		close(errc)
		return errc
	}

	go func() {
		defer close(errc)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		_, err, _ := s.group.Do("refresh", func() (any, error) {
			return nil, s.Refresh(ctx)
		})
		errc <- err
	}()

	return errc
}

func (s *TokenService) store(token string) {
	s.creds.set(token)
	metrics.CredentialStoredAt.Set(float64(time.Now().Unix()))
}
