package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/talentsift/talentsift/pkg/types"
)

// BreakerClient wraps a generation client with a circuit breaker so a
// flapping endpoint fails fast instead of stalling every chat turn.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps inner with a circuit breaker that opens after five
// consecutive failures and probes again after 30 seconds.
func NewBreakerClient(inner Client) *BreakerClient {
	return &BreakerClient{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "llm-generate",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *BreakerClient) Generate(ctx context.Context, instruction, contextBlock, query string) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.inner.Generate(ctx, instruction, contextBlock, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open: %w", types.ErrGenerationFailed, err)
		}
		return "", err
	}
	return result.(string), nil
}
