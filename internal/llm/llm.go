// Package llm provides an abstraction layer for the external classifier
// model.
//
// The package defines a Provider interface that enables swapping between
// providers (Ollama, OpenAI, Anthropic) without changing consuming code.
// The AI classifier adapter only needs complete responses, so the
// interface is deliberately non-streaming.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"logtriage/internal/config"
)

// Provider defines the interface for LLM interactions.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Chat sends messages and returns a complete response.
	// The context bounds the request; callers set a timeout.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// Heartbeat checks if the provider is reachable and healthy.
	Heartbeat(ctx context.Context) error

	// ModelAvailable checks if a specific model is ready for use.
	ModelAvailable(ctx context.Context, model string) (bool, error)
}

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender: "system", "user", or "assistant"
	Role string

	// Content is the message text
	Content string
}

// ChatOptions configures chat behavior.
// All fields are optional; nil opts uses provider defaults.
type ChatOptions struct {
	// Model specifies which model to use (e.g., "llama3.2", "gpt-4o")
	Model string

	// Temperature controls randomness. Structured classification wants 0.
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// Response represents a complete LLM response.
type Response struct {
	// Content is the generated text
	Content string

	// Model is the name of the model that generated the response
	Model string
}

// Common errors returned by LLM providers.
var (
	// ErrProviderUnavailable indicates the LLM provider is not reachable
	ErrProviderUnavailable = errors.New("llm provider is not reachable")

	// ErrModelNotFound indicates the requested model is not available
	ErrModelNotFound = errors.New("requested model is not available")
)

// NewProvider creates an LLM provider based on the configuration.
// Returns an error if the provider type is unknown or initialization fails.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	providerType := strings.ToLower(cfg.LLM.Provider)
	logger.Debug("creating llm provider", "type", providerType)

	switch providerType {
	case "ollama":
		return newOllamaProvider(cfg, logger)
	case "openai":
		return newOpenAIProvider(cfg, logger)
	case "anthropic":
		return newAnthropicProvider(cfg, logger)
	case "":
		return nil, errors.New("llm provider not specified in configuration")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: ollama, openai, anthropic)", providerType)
	}
}

// DefaultModel returns the configured model name for the selected provider.
func DefaultModel(cfg *config.Config) string {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "ollama":
		return cfg.LLM.Ollama.Model
	case "openai":
		return cfg.LLM.OpenAI.Model
	case "anthropic":
		return cfg.LLM.Anthropic.Model
	default:
		return ""
	}
}
