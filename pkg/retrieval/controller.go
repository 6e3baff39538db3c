package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentsift/talentsift/pkg/types"
)

// DefaultChain is the fallback order, strongest mode first. A request for a
// mid-chain mode starts at that mode's position and degrades from there.
var DefaultChain = []types.RetrievalMode{
	types.ModeMix,
	types.ModeHybrid,
	types.ModeLocal,
	types.ModeNaive,
}

// Attempt records one fallback chain step for telemetry.
type Attempt struct {
	Mode    types.RetrievalMode `json:"mode"`
	Err     string              `json:"error,omitempty"`
	Elapsed time.Duration       `json:"elapsed"`
}

// Outcome is a completed retrieval: the result and how the chain got there.
type Outcome struct {
	Result       *Result
	ModeUsed     types.RetrievalMode
	Attempts     []Attempt
	FallbackUsed bool
}

// Controller walks the fallback chain: it tries the requested mode first and
// degrades strategy by strategy until one succeeds. An empty result is a
// success and stops the chain; only recoverable backend errors advance it.
type Controller struct {
	strategies map[types.RetrievalMode]Strategy
	chain      []types.RetrievalMode
	timeout    time.Duration
	logger     *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithChain overrides the fallback order.
func WithChain(chain []types.RetrievalMode) ControllerOption {
	return func(c *Controller) {
		if len(chain) > 0 {
			c.chain = chain
		}
	}
}

// WithAttemptTimeout sets the per-attempt deadline. Zero disables it.
func WithAttemptTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.timeout = d }
}

// NewController creates a fallback controller over the engine's strategies.
func NewController(engine *Engine, opts ...ControllerOption) *Controller {
	c := &Controller{
		strategies: engine.Strategies(),
		chain:      DefaultChain,
		timeout:    10 * time.Second,
		logger:     engine.logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chainFor builds the attempt sequence for a requested mode. Modes already
// in the chain start it at their own position. Global is never an automatic
// fallback target: requesting it prepends it to the full chain instead.
func (c *Controller) chainFor(requested types.RetrievalMode) []types.RetrievalMode {
	for i, mode := range c.chain {
		if mode == requested {
			return c.chain[i:]
		}
	}
	sequence := make([]types.RetrievalMode, 0, len(c.chain)+1)
	sequence = append(sequence, requested)
	sequence = append(sequence, c.chain...)
	return sequence
}

// Retrieve runs the fallback chain for the requested mode. Each mode is
// attempted at most once under its own deadline. When every mode fails the
// error wraps ErrChainExhausted and the last attempt's cause.
func (c *Controller) Retrieve(ctx context.Context, requested types.RetrievalMode, q *Query) (*Outcome, error) {
	sequence := c.chainFor(requested)
	outcome := &Outcome{Attempts: make([]Attempt, 0, len(sequence))}

	var lastErr error
	for _, mode := range sequence {
		strategy, ok := c.strategies[mode]
		if !ok {
			continue
		}

		start := time.Now()
		result, err := c.attempt(ctx, strategy, q)
		elapsed := time.Since(start)

		attempt := Attempt{Mode: mode, Elapsed: elapsed}
		if err != nil {
			attempt.Err = err.Error()
		}
		outcome.Attempts = append(outcome.Attempts, attempt)

		if err == nil {
			outcome.Result = result
			outcome.ModeUsed = mode
			outcome.FallbackUsed = mode != requested
			if outcome.FallbackUsed {
				c.logger.Warn("retrieval degraded",
					"requested", requested, "used", mode, "attempts", len(outcome.Attempts))
			}
			return outcome, nil
		}

		lastErr = err
		if !types.IsRecoverable(err) {
			return outcome, err
		}
		if ctx.Err() != nil {
			return outcome, fmt.Errorf("%w: %w", types.ErrChainExhausted, ctx.Err())
		}
		c.logger.Warn("retrieval mode failed, advancing chain", "mode", mode, "err", err)
	}

	return outcome, fmt.Errorf("%w: last error: %w", types.ErrChainExhausted, lastErr)
}

// attempt runs one strategy under the per-attempt deadline, mapping deadline
// expiry to the recoverable timeout error so the chain can advance.
func (c *Controller) attempt(ctx context.Context, strategy Strategy, q *Query) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := strategy.Retrieve(ctx, q)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: mode %s: %w", types.ErrBackendTimeout, strategy.Mode(), err)
		}
		return nil, err
	}
	return result, nil
}
