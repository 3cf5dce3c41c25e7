// Package llm abstracts the language-model providers behind a single
// Provider interface. The oracle layer talks to Provider only; which
// vendor actually answers is a configuration detail.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction every vendor adapter implements.
type Provider interface {
	// Generate sends a prompt and returns the model's output. When the
	// request carries a Schema, the provider asks for structured output
	// and validates the returned JSON against it before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider targets.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Question generation and answer
	// evaluation are single turn, so this is usually one user message.
	Messages []Message

	// Schema, when set, is the JSON Schema the response must satisfy.
	// When nil the response Content is the raw text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected back.
type Schema struct {
	// Name identifies the schema to the provider, kebab-case,
	// e.g. "practice-question".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated output. With a Schema it is the
	// validated JSON object; without one, the raw text.
	Content json.RawMessage

	// Usage reports token consumption for this call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
