package services

import (
	"context"
	"fmt"
	"strings"

	appconfig "protrader/config"
	"protrader/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// chatClient defines the interface for chat-completion calls (for testing)
type chatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// chatClientWrapper wraps the openai.Client to implement our interface
type chatClientWrapper struct {
	client openai.Client
}

func (w *chatClientWrapper) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return w.client.Chat.Completions.New(ctx, params)
}

// GeminiService handles text generation through the Gemini OpenAI-compatible
// endpoint. Models are tried in the configured order; the first successful
// call wins, so a retired or regionally blocked model degrades silently to
// the next one.
type GeminiService struct {
	client    chatClient
	models    []string
	maxTokens int
}

// NewGeminiService creates a new GeminiService instance
func NewGeminiService(cfg *appconfig.Config) (*GeminiService, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if len(cfg.Gemini.Models) == 0 {
		return nil, fmt.Errorf("at least one Gemini model must be configured")
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.Gemini.APIKey),
		option.WithBaseURL(cfg.Gemini.BaseURL),
	)

	return &GeminiService{
		client:    &chatClientWrapper{client: client},
		models:    cfg.Gemini.Models,
		maxTokens: cfg.Gemini.MaxTokens,
	}, nil
}

// newGeminiServiceWithClient creates a GeminiService with a custom client (for testing)
func newGeminiServiceWithClient(client chatClient, models []string, maxTokens int) *GeminiService {
	return &GeminiService{
		client:    client,
		models:    models,
		maxTokens: maxTokens,
	}
}

// InvokeWithPrompt sends a prompt through the model fallback chain and
// returns the first non-empty response text.
func (s *GeminiService) InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerGemini, "invoke")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerGemini, func() (string, error) {
		var lastErr error
		for _, model := range s.models {
			params := openai.ChatCompletionNewParams{
				Model:     shared.ChatModel(model),
				MaxTokens: openai.Int(int64(s.maxTokens)),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(systemPrompt),
					openai.UserMessage(userPrompt),
				},
			}

			completion, err := s.client.CreateChatCompletion(ctx, params)
			if err != nil {
				lastErr = fmt.Errorf("model %s failed: %w", model, err)
				observability.Debug("model fallback", "model", model, "error", err)
				continue
			}
			if len(completion.Choices) == 0 {
				lastErr = fmt.Errorf("model %s returned empty response", model)
				continue
			}
			return completion.Choices[0].Message.Content, nil
		}
		return "", fmt.Errorf("all models failed: %w", lastErr)
	})

	timer.ObserveExternalAPI(BreakerGemini, "invoke")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerGemini, "invoke", categorizeAPIError(err))
	}
	return result, err
}

// categorizeAPIError categorizes an error for metrics purposes
func categorizeAPIError(err error) string {
	if err == nil {
		return "none"
	}
	errStr := err.Error()
	switch {
	case containsAny(errStr, "timeout", "deadline"):
		return "timeout"
	case containsAny(errStr, "rate limit", "429"):
		return "rate_limit"
	case containsAny(errStr, "unauthorized", "401"):
		return "auth_error"
	case containsAny(errStr, "connection", "network"):
		return "connection_error"
	default:
		return "unknown"
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
