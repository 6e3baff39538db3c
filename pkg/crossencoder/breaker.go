package crossencoder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/talentsift/talentsift/pkg/types"
)

// BreakerSettings configures the circuit breaker around a rerank client.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// BreakerClient wraps a Client with circuit breaking. When the breaker is
// open, Rank fails fast with ErrBackendUnavailable so the reranking stage
// degrades to the hybrid-score order instead of stalling on a dead service.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps client with a circuit breaker named for logging.
func NewBreakerClient(client Client, name string, settings BreakerSettings, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 3
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ReadyToTripRatio == 0 {
		settings.ReadyToTripRatio = 0.6
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= settings.ReadyToTripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cross-encoder circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerClient{client: client, cb: gobreaker.NewCircuitBreaker(st)}
}

// Rank implements Client.
func (c *BreakerClient) Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Rank(ctx, query, passages)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: cross-encoder circuit open", types.ErrBackendUnavailable)
		}
		return nil, err
	}
	return result.([]RankedPassage), nil
}
