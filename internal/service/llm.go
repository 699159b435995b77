package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Endpoint describes one OpenAI-compatible model server (Ollama, Groq,
// LM Studio, OpenAI).
type Endpoint struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// LLMClient talks to a single model on an OpenAI-compatible endpoint.
type LLMClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewLLMClient(ep Endpoint) (*LLMClient, error) {
	if strings.TrimSpace(ep.Model) == "" {
		return nil, errors.New("service: model must not be empty")
	}
	key := ep.APIKey
	if key == "" {
		key = "not-needed"
	}
	cfg := openai.DefaultConfig(key)
	if ep.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(ep.BaseURL, "/")
	}
	return &LLMClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       ep.Model,
		temperature: ep.Temperature,
	}, nil
}

func (l *LLMClient) Model() string { return l.model }

// Complete sends prompt as a single user message.
func (l *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	return l.send(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// Chat sends a system instruction followed by a user message.
func (l *LLMClient) Chat(ctx context.Context, system, user string) (string, error) {
	return l.send(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	})
}

func (l *LLMClient) send(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       l.model,
		Messages:    msgs,
		Temperature: l.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm %s: %w", l.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm %s: empty response", l.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ListModels returns the model IDs the endpoint serves.
func (l *LLMClient) ListModels(ctx context.Context) ([]string, error) {
	resp, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("llm: list models: %w", err)
	}
	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
