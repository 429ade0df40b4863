package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// langchainAdapter implements the Provider interface using langchaingo.
// It translates between our Provider interface and langchaingo's
// llms.Model so provider-specific clients stay out of consuming code.
type langchainAdapter struct {
	model        llms.Model
	defaultModel string
	providerType string
	logger       *slog.Logger
}

// Chat sends messages and returns a complete response.
func (a *langchainAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	lcMessages := convertMessages(messages)
	lcOpts := convertOptions(opts, a.defaultModel)

	resp, err := a.model.GenerateContent(ctx, lcMessages, lcOpts...)
	if err != nil {
		a.logger.Error("chat request failed", "provider", a.providerType, "error", err)
		return nil, wrapError(err)
	}

	return convertResponse(resp, a.defaultModel), nil
}

// Heartbeat checks if the provider is reachable using a minimal request.
// The Ollama provider overrides this with a cheap HTTP health check.
func (a *langchainAdapter) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := a.Chat(ctx, []Message{
		{Role: "user", Content: "ping"},
	}, &ChatOptions{MaxTokens: 1})

	return err
}

// ModelAvailable assumes availability for cloud providers; they fail at
// request time with a clear error. The Ollama provider overrides this
// with an actual model-list check.
func (a *langchainAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return true, nil
}

// wrapError maps transport-level failures onto the package sentinels so
// callers can use errors.Is without knowing the provider.
func wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Join(ErrProviderUnavailable, err)
}

// --- conversion helpers ---

func convertMessages(messages []Message) []llms.MessageContent {
	result := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		result[i] = llms.TextParts(convertRole(msg.Role), msg.Content)
	}
	return result
}

func convertRole(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "user":
		return llms.ChatMessageTypeHuman
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeGeneric
	}
}

func convertOptions(opts *ChatOptions, defaultModel string) []llms.CallOption {
	result := []llms.CallOption{}

	if opts != nil && opts.Model != "" {
		result = append(result, llms.WithModel(opts.Model))
	} else {
		result = append(result, llms.WithModel(defaultModel))
	}

	if opts != nil {
		result = append(result, llms.WithTemperature(float64(opts.Temperature)))
		if opts.MaxTokens > 0 {
			result = append(result, llms.WithMaxTokens(opts.MaxTokens))
		}
	}

	return result
}

func convertResponse(lcResp *llms.ContentResponse, defaultModel string) *Response {
	if len(lcResp.Choices) == 0 {
		return &Response{Model: defaultModel}
	}

	return &Response{
		Content: lcResp.Choices[0].Content,
		Model:   defaultModel,
	}
}
