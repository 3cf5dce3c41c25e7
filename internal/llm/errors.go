package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// transientErr marks an error the retry decorator may attempt again.
// Errors that do not implement it are classified by the decorator.
type transientErr interface {
	transient() bool
}

// ErrRateLimit reports a 429 from the provider. RetryAfter carries the
// server's requested pause when one was sent.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error   { return e.Err }
func (e *ErrRateLimit) transient() bool { return true }

// ErrInvalidResponse reports model output that failed JSON parsing or
// schema validation. The retry decorator grants it a single extra
// attempt rather than the full budget.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable reports that the provider is down or
// unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error   { return e.Err }
func (e *ErrProviderUnavailable) transient() bool { return true }

// ErrMaxTokensExceeded reports a response truncated at the MaxTokens
// cap. Retrying the same request would just truncate again.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model response truncated: max tokens exceeded"
}

func (e *ErrMaxTokensExceeded) transient() bool { return false }
