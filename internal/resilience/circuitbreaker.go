package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrOpen = errors.New("circuit breaker is open")

type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// CircuitBreaker opens after threshold consecutive failures and lets a
// single probe through once timeout has elapsed.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

func NewCircuitBreaker[T any](name string, threshold int, timeout time.Duration) *CircuitBreaker[T] {
	if threshold < 1 {
		threshold = 1
	}
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("Circuit Breaker OPENED", "name", name, "from", from.String())
			case gobreaker.StateClosed:
				slog.Info("Circuit Breaker RECOVERED", "name", name)
			default:
				slog.Info("Circuit Breaker probing", "name", name)
			}
		},
	}
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](st)}
}

// Execute runs action unless the breaker is open. A rejected call returns
// ErrOpen without invoking action.
func (c *CircuitBreaker[T]) Execute(action func() (T, error)) (T, error) {
	result, err := c.cb.Execute(action)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, ErrOpen
	}
	return result, err
}

func (c *CircuitBreaker[T]) State() State {
	return c.cb.State()
}
