// Package models contains shared data models used across the ReviewLens codebase.
package models

import "context"

// CompletionRequest is a single prompt sent to an inference backend.
type CompletionRequest struct {
	System      string // role context for the model
	Prompt      string // user prompt text
	Temperature float64
	MaxTokens   int
}

// AIProvider is the core interface that all inference integrations must
// implement. Never call specific providers directly — always inject this
// interface. Implementations perform exactly one attempt per call; retry
// policy, if any, belongs to the caller.
type AIProvider interface {
	// Complete sends one prompt and returns the raw model text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name returns the provider identifier (e.g., "openai", "ollama").
	Name() string
}
