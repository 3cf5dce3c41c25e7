package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient failures with
// exponential backoff and jitter. Transience is decided by the error
// types themselves (see transientErr); a malformed response gets a
// single extra attempt, and context cancellation always ends the loop.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry behavior.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// One reprompt for a malformed response, on top of the normal
	// attempt budget.
	invalidBudget := 1

	var lastErr error
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !r.retryAllowed(err, &invalidBudget) {
			return nil, err
		}
		if attempt+1 == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) retryAllowed(err error, invalidBudget *int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidBudget == 0 {
			return false
		}
		*invalidBudget--
		return true
	}

	var te transientErr
	if errors.As(err, &te) {
		return te.transient()
	}

	// Plain network-level errors get the benefit of the doubt.
	return true
}

// backoff computes the wait before the next attempt. A rate-limit
// error carrying the server's Retry-After wins over the exponential
// schedule.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := time.Duration(float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt)))
	wait = min(wait, r.config.MaxWait)

	// Spread concurrent waiters out by up to a fifth either way.
	spread := time.Duration(rand.Int64N(int64(wait/5)*2+1)) - wait/5
	return max(wait+spread, 0)
}
