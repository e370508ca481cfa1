// Package models contains shared data models used across the portal codebase.
package models

import (
	"context"
	"errors"
)

// Chat message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message in a generation request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to a single generation call.
type ChatRequest struct {
	System   string
	Messages []ChatMessage
	// JSONMode asks the provider to constrain output to a single valid
	// JSON object. Providers that cannot guarantee this still receive the
	// instruction; callers must validate the response either way.
	JSONMode    bool
	Temperature float32
}

// LLMProvider is the core interface every generation integration implements.
// Never call a specific provider directly; always inject this interface.
type LLMProvider interface {
	// Chat sends the conversation to the model and returns the raw
	// assistant text. It may fail or return malformed output; callers own
	// validation and fallback.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}

// Provider error vocabulary. Defined next to LLMProvider so that both the
// provider implementations and the HTTP layer can map against them without
// importing each other.
var (
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	ErrInferenceTimeout    = errors.New("llm inference timeout")
	ErrInvalidResponse     = errors.New("llm provider returned invalid response")
)
