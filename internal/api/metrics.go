package api

import (
	"errors"
	"time"

	"github.com/maacloud/account-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for auth request metrics.
const (
	OutcomeSuccess           = "success"
	OutcomeValidation        = "validation_error"
	OutcomeLoginFailed       = "login_failed"
	OutcomeAccountDisabled   = "account_disabled"
	OutcomeVerification      = "verification_failed"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeSessionRevoked    = "session_revoked"
	OutcomeInvalidToken      = "invalid_token"
	OutcomeDelivery          = "delivery_error"
	OutcomeInternal          = "internal_error"
)

// Metrics holds the Prometheus collectors for the auth endpoints.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the auth metrics and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_auth_requests_total",
				Help: "Total number of auth requests by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "account_auth_request_duration_seconds",
				Help:    "Auth request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}

// Observe records one finished request. A nil Metrics records nothing.
func (m *Metrics) Observe(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, outcomeOf(err)).Inc()
	m.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, service.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, service.ErrLoginFailed):
		return OutcomeLoginFailed
	case errors.Is(err, service.ErrAccountDisabled):
		return OutcomeAccountDisabled
	case errors.Is(err, service.ErrVerificationFailed):
		return OutcomeVerification
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return OutcomeAlreadyRegistered
	case errors.Is(err, service.ErrSessionRevoked):
		return OutcomeSessionRevoked
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return OutcomeInvalidToken
	case errors.Is(err, service.ErrDelivery):
		return OutcomeDelivery
	default:
		return OutcomeInternal
	}
}
