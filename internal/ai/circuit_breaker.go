package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type CircuitBreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(name string, p Provider) *CircuitBreakerProvider {

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// caller cancellation is not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &CircuitBreakerProvider{
		provider: p,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *CircuitBreakerProvider) Review(
	ctx context.Context,
	r ReviewRequest,
) (ReviewResponse, error) {

	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.provider.Review(ctx, r)
	})

	if err != nil {
		return ReviewResponse{}, err
	}

	resp, ok := out.(ReviewResponse)
	if !ok {
		return ReviewResponse{}, fmt.Errorf("unexpected circuit breaker response type")
	}

	return resp, nil
}

func (c *CircuitBreakerProvider) State() gobreaker.State {
	return c.cb.State()
}
