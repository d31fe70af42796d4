// Package breaker wraps outbound HTTP calls in circuit breakers.
package breaker

import (
	"errors"
	"time"

	"sejour-pms/internal/logger"

	"github.com/sony/gobreaker"
)

// StatusError is an error carrying the HTTP status of a remote answer.
// Client errors (4xx) do not count as failures: the remote is healthy, the
// request was wrong.
type StatusError interface {
	error
	HTTPStatus() int
}

// New returns a breaker that opens after three consecutive failures and
// lets a trial request through after ten seconds.
func New(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: IsSuccessful,
	})
}

func IsSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var se StatusError
	if errors.As(err, &se) {
		return se.HTTPStatus() >= 400 && se.HTTPStatus() < 500
	}
	return false
}

// IsOpen reports whether err was returned because the breaker rejected the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
