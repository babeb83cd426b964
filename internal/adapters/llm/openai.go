// Package llm adapts OpenAI-compatible chat completion APIs to ports.LanguageModel.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/ports"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = openai.GPT4oMini

// ErrEmptyCompletion is returned when the API answers without any choice.
var ErrEmptyCompletion = errors.New("language model returned no choices")

// OpenAIModel sends one chat completion per call.
type OpenAIModel struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

var _ ports.LanguageModel = (*OpenAIModel)(nil)

// Option configures an OpenAIModel.
type Option func(*OpenAIModel)

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(m *OpenAIModel) { m.timeout = d }
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(m *OpenAIModel) {
		if model != "" {
			m.model = model
		}
	}
}

// NewOpenAIModel builds a client for apiKey. An empty baseURL targets api.openai.com.
func NewOpenAIModel(apiKey, baseURL string, opts ...Option) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	m := &OpenAIModel{
		client:      openai.NewClientWithConfig(cfg),
		model:       DefaultModel,
		timeout:     60 * time.Second,
		temperature: 0.2,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *OpenAIModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
