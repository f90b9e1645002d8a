package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured text from a single prompt.
type Provider interface {
	// Generate sends req and returns the response. When req.Schema is set
	// the content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend, e.g. "anthropic".
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user message.
	Prompt string

	// Schema, when set, asks the provider for JSON conforming to it.
	Schema *Schema

	MaxTokens int

	// Temperature in the range 0.0 - 1.0. Zero leaves the provider default.
	Temperature float64
}

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "field-explanation".
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is one of "end", "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish validates content against the request schema and assembles the
// response shared by all providers.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through as direct model IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
