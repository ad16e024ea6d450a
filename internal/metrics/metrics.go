// Package metrics holds the prometheus collectors exposed on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts catalog calls by catalog, endpoint and
	// outcome ("success", "failure", "rejected", "canceled").
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_upstream_requests_total",
			Help: "Total number of requests sent to the show catalogs",
		},
		[]string{"catalog", "endpoint", "result"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_upstream_request_duration_seconds",
			Help:    "Duration of show catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"catalog", "endpoint"},
	)

	// CredentialRefreshes counts secondary catalog logins and refreshes.
	CredentialRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_credential_refreshes_total",
			Help: "Total number of secondary catalog token acquisitions and refreshes",
		},
		[]string{"kind", "result"}, // kind: "login", "refresh"
	)

	// CredentialStoredAt is the unix time of the last stored token. Its age
	// is time() minus this value.
	CredentialStoredAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_credential_stored_timestamp_seconds",
			Help: "Unix time the current secondary catalog token was stored",
		},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_circuit_breaker_state",
			Help: "Current circuit breaker state per catalog",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	VerificationMails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_verification_mails_total",
			Help: "Total number of verification mails sent",
		},
		[]string{"transport", "result"},
	)
)
