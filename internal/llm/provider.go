package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call. Card generation, hints and
// card details all go through it.
type Provider interface {
	// Generate runs req. With a Schema the returned Content is JSON that
	// validated against it; without one it is the model's text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the API model identifier requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature is left at the provider default when zero.
	Temperature float64
}

// Message is one turn of the prompt.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output, e.g. "flashcard-set".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may differ from
	// ModelID when the provider resolves aliases server side.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage is the token accounting of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish checks raw model output against the request schema and builds the
// Response. Structured output that stopped at the token limit fails with
// ErrMaxTokensExceeded rather than a parse error.
func finish(req Request, raw json.RawMessage, stop, model string, usage Usage) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: raw}
	}
	content, err := conform(req.Schema, raw)
	if err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
