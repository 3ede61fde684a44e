package generation

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services"
)

// CompletionClient produces one completion for a system/user message
// pair.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient calls the chat completions API with the configured
// sampling parameters. No retries: a failed call is surfaced to the
// caller as-is.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	topP        float32
}

func NewOpenAIClient(client *openai.Client, cfg config.LLMConfig) *OpenAIClient {
	return &OpenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		topP:        cfg.TopP,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        c.topP,
	})
	if err != nil {
		return "", services.WrapGeneration("chat completion call failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", services.ErrEmptyCompletion
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", services.ErrEmptyCompletion
	}
	return text, nil
}
