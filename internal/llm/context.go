package llm

import "context"

type purposeKey struct{}

// Purposes recorded with each request in the LLM event log.
const (
	PurposeCardGeneration = "card-generation"
	PurposeHint           = "hint"
	PurposeDetails        = "details"

	purposeUnknown = "unknown"
)

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return purposeUnknown
}
