package catalog

import (
	"bitwise74/tracker-api/internal/metrics"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodySize = 4 << 20

// Options configures the HTTP behaviour shared by both catalog clients.
type Options struct {
	// Timeout bounds every single upstream call. Defaults to 10s.
	Timeout time.Duration

	// RPS throttles outgoing requests, 0 disables throttling.
	RPS float64

	// HTTPClient is used instead of http.DefaultClient when set.
	HTTPClient *http.Client
}

// statusError is returned for non 2xx responses.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d, %s", e.Code, e.Body)
}

// upstream wraps one catalog host with throttling, a circuit breaker and
// a per call timeout.
type upstream struct {
	name    string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func newUpstream(name string, o Options) *upstream {
	u := &upstream{
		name:    name,
		client:  o.HTTPClient,
		timeout: o.Timeout,
	}

	if u.client == nil {
		u.client = http.DefaultClient
	}

	if u.timeout <= 0 {
		u.timeout = 10 * time.Second
	}

	if o.RPS > 0 {
		u.limiter = rate.NewLimiter(rate.Limit(o.RPS), max(1, int(o.RPS)))
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	u.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A 4xx means the catalog is up and we asked for something it
		// doesn't have. A caller that gave up says nothing about the
		// catalog either, only the per call timeout counts against it.
		IsSuccessful: func(err error) bool {
			if errors.Is(err, context.Canceled) {
				return true
			}

			var se *statusError
			if errors.As(err, &se) {
				return se.Code < 500 && se.Code != http.StatusTooManyRequests
			}

			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("Catalog circuit breaker changed state",
				zap.String("catalog", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return u
}

// do sends the request built by newReq and returns the response body.
// endpoint is only used as a metrics label.
func (u *upstream) do(ctx context.Context, endpoint string, newReq func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			metrics.UpstreamRequests.WithLabelValues(u.name, endpoint, "rejected").Inc()
			return nil, fmt.Errorf("throttled, %w", err)
		}
	}

	start := time.Now()
	body, err := u.cb.Execute(func() ([]byte, error) {
		req, err := newReq(ctx)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")

		resp, err := u.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body, %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{Code: resp.StatusCode, Body: truncate(string(b), 200)}
		}

		return b, nil
	})
	metrics.UpstreamDuration.WithLabelValues(u.name, endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		result := "failure"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case errors.Is(err, context.Canceled):
			result = "canceled"
		}

		metrics.UpstreamRequests.WithLabelValues(u.name, endpoint, result).Inc()
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(u.name, endpoint, "success").Inc()
	return body, nil
}

// getJSON decodes the response of a GET request to url into out.
func (u *upstream) getJSON(ctx context.Context, endpoint, url, bearer string, out any) error {
	body, err := u.do(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, err
		}

		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		return req, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response, %w", endpoint, err)
	}

	return nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
