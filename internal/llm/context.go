package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// purposeUnknown is recorded when a request reaches the logging
// decorator without a purpose tag.
const purposeUnknown = "unknown"

// WithPurpose tags the context with a purpose label ("question",
// "evaluation", "hint") that the logging decorator records per
// request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom reads the purpose label back.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return purposeUnknown
}
