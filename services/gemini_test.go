package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

// mockChatClient records the models tried and scripts a per-model outcome.
type mockChatClient struct {
	modelsTried []string
	responses   map[string]mockChatResponse
}

type mockChatResponse struct {
	content string
	err     error
	empty   bool
}

func (m *mockChatClient) CreateChatCompletion(_ context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	model := string(params.Model)
	m.modelsTried = append(m.modelsTried, model)

	resp, ok := m.responses[model]
	if !ok {
		return nil, errors.New("unknown model")
	}
	if resp.err != nil {
		return nil, resp.err
	}
	if resp.empty {
		return &openai.ChatCompletion{}, nil
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: resp.content}},
		},
	}, nil
}

var testModels = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}

func resetBreakers() {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
}

func TestGeminiService_InvokeWithPrompt_FirstModelWins(t *testing.T) {
	resetBreakers()
	client := &mockChatClient{responses: map[string]mockChatResponse{
		"gemini-1.5-flash": {content: "verdict: bullish"},
	}}
	svc := newGeminiServiceWithClient(client, testModels, 1024)

	got, err := svc.InvokeWithPrompt(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("InvokeWithPrompt() error = %v", err)
	}
	if got != "verdict: bullish" {
		t.Errorf("response = %q", got)
	}
	if len(client.modelsTried) != 1 {
		t.Errorf("modelsTried = %v, want only the first model", client.modelsTried)
	}
}

func TestGeminiService_InvokeWithPrompt_FallbackOrder(t *testing.T) {
	resetBreakers()
	client := &mockChatClient{responses: map[string]mockChatResponse{
		"gemini-1.5-flash": {err: errors.New("model retired")},
		"gemini-1.5-pro":   {empty: true},
		"gemini-pro":       {content: "fallback verdict"},
	}}
	svc := newGeminiServiceWithClient(client, testModels, 1024)

	got, err := svc.InvokeWithPrompt(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("InvokeWithPrompt() error = %v", err)
	}
	if got != "fallback verdict" {
		t.Errorf("response = %q, want the third model's output", got)
	}

	want := []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}
	if len(client.modelsTried) != len(want) {
		t.Fatalf("modelsTried = %v, want %v", client.modelsTried, want)
	}
	for i := range want {
		if client.modelsTried[i] != want[i] {
			t.Errorf("modelsTried[%d] = %q, want %q", i, client.modelsTried[i], want[i])
		}
	}
}

func TestGeminiService_InvokeWithPrompt_AllModelsFail(t *testing.T) {
	resetBreakers()
	client := &mockChatClient{responses: map[string]mockChatResponse{
		"gemini-1.5-flash": {err: errors.New("429 rate limit")},
		"gemini-1.5-pro":   {err: errors.New("429 rate limit")},
		"gemini-pro":       {err: errors.New("429 rate limit")},
	}}
	svc := newGeminiServiceWithClient(client, testModels, 1024)

	got, err := svc.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("InvokeWithPrompt() expected error when every model fails")
	}
	if got != "" {
		t.Errorf("response = %q, want empty", got)
	}
	if !strings.Contains(err.Error(), "all models failed") {
		t.Errorf("error = %v", err)
	}
	if len(client.modelsTried) != 3 {
		t.Errorf("modelsTried = %v, want all three", client.modelsTried)
	}
}

func TestCategorizeAPIError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{errors.New("context deadline exceeded"), "timeout"},
		{errors.New("429 too many requests"), "rate_limit"},
		{errors.New("401 unauthorized"), "auth_error"},
		{errors.New("connection refused"), "connection_error"},
		{errors.New("something odd"), "unknown"},
	}

	for _, tt := range tests {
		if got := categorizeAPIError(tt.err); got != tt.want {
			t.Errorf("categorizeAPIError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
