// Package breaker protects outbound calls to third-party services with a
// circuit breaker and classifies their failures as retryable or not.
// This is part of the platform layer and contains no business logic.
package breaker

import (
	"context"
	"errors"
	"net"
	"time"

	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// invoking the underlying transport.
var ErrCircuitOpen = apperr.Unavailable("service temporarily unavailable")

// Breaker wraps a named circuit breaker around outbound calls.
// Every call runs under a bounded timeout; when the circuit is open the
// call fails immediately without waiting for that timeout.
type Breaker struct {
	cb      *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
}

// New creates a breaker for one outbound service. The circuit opens when the
// failure ratio over at least MinRequests samples exceeds FailureRatio, and
// allows a single trial call after OpenTimeout.
func New(name string, cfg config.BreakerConfig, log *logger.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.GetBreakerOpenTimeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.GetBreakerMinRequests() {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.GetBreakerFailureRatio()
		},
	}
	if log != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			log.CircuitStateChange(name, from.String(), to.String())
		}
	}

	return &Breaker{
		cb:      gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout: cfg.GetProviderCallTimeout(),
	}
}

// Do executes fn through the breaker under the configured per-call timeout.
// All failures, retryable or not, count toward opening the circuit.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		return struct{}{}, fn(callCtx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State reports the current breaker state (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// IsRetryable classifies an outbound error. Permanent rejections (invalid
// destination, validation, authorization) must not be re-enqueued; transient
// conditions (timeouts, open circuit, network faults, remote 5xx) should be.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch apperr.GetKind(err) {
	case apperr.KindValidation, apperr.KindBadRequest, apperr.KindNotFound,
		apperr.KindForbidden, apperr.KindUnauthorized, apperr.KindConflict:
		return false
	case apperr.KindUnavailable, apperr.KindInternal:
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Unclassified errors default to retryable; a later attempt decides.
	return true
}
