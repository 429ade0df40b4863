package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/ollama/ollama/api"
	"github.com/tmc/langchaingo/llms/anthropic"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"logtriage/internal/config"
)

// resolveAPIKey checks config first, then falls back to an environment
// variable. Returns empty string if neither is set.
func resolveAPIKey(configKey, envVarName string) string {
	if configKey != "" {
		return configKey
	}
	return os.Getenv(envVarName)
}

// newOllamaProvider creates an Ollama provider with real health checks
// backed by the native Ollama API client.
func newOllamaProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	opts := []lcollama.Option{
		lcollama.WithModel(cfg.LLM.Ollama.Model),
		lcollama.WithServerURL(cfg.LLM.Ollama.Host),
	}

	if cfg.LLM.Ollama.KeepAlive != "" {
		opts = append(opts, lcollama.WithKeepAlive(cfg.LLM.Ollama.KeepAlive))
	}

	if cfg.LLM.Ollama.NumCtx > 0 {
		opts = append(opts, lcollama.WithRunnerNumCtx(cfg.LLM.Ollama.NumCtx))
	}

	model, err := lcollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama provider: %w", err)
	}

	hostURL, err := url.Parse(cfg.LLM.Ollama.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.LLM.Ollama.Host, err)
	}

	logger.Info("initialized ollama provider",
		"host", cfg.LLM.Ollama.Host,
		"model", cfg.LLM.Ollama.Model,
	)

	return &ollamaProvider{
		langchainAdapter: &langchainAdapter{
			model:        model,
			defaultModel: cfg.LLM.Ollama.Model,
			providerType: "ollama",
			logger:       logger,
		},
		client: api.NewClient(hostURL, http.DefaultClient),
	}, nil
}

// newOpenAIProvider creates an OpenAI provider.
func newOpenAIProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf(
			"openai api key not configured: set OPENAI_API_KEY environment variable or llm.openai.api_key in config",
		)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(cfg.LLM.OpenAI.Model),
	}

	if cfg.LLM.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLM.OpenAI.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai provider: %w", err)
	}

	logger.Info("initialized openai provider",
		"model", cfg.LLM.OpenAI.Model,
		"base_url", cfg.LLM.OpenAI.BaseURL,
	)

	return &langchainAdapter{
		model:        model,
		defaultModel: cfg.LLM.OpenAI.Model,
		providerType: "openai",
		logger:       logger,
	}, nil
}

// newAnthropicProvider creates an Anthropic/Claude provider.
func newAnthropicProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf(
			"anthropic api key not configured: set ANTHROPIC_API_KEY environment variable or llm.anthropic.api_key in config",
		)
	}

	model, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(cfg.LLM.Anthropic.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}

	logger.Info("initialized anthropic provider", "model", cfg.LLM.Anthropic.Model)

	return &langchainAdapter{
		model:        model,
		defaultModel: cfg.LLM.Anthropic.Model,
		providerType: "anthropic",
		logger:       logger,
	}, nil
}

// ollamaProvider extends langchainAdapter with Ollama-specific health
// checks through the native API client.
type ollamaProvider struct {
	*langchainAdapter
	client *api.Client
}

// Heartbeat checks Ollama server health.
func (p *ollamaProvider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

// ModelAvailable checks if a specific model has been pulled to Ollama.
func (p *ollamaProvider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	listResp, err := p.client.List(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	for _, m := range listResp.Models {
		if m.Name == model || m.Model == model {
			return true, nil
		}
	}
	return false, nil
}
