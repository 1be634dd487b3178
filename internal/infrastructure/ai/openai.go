package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/brandpulse/content-api/internal/core/domain"
)

const defaultTextTimeout = 20 * time.Second

const systemPrompt = "You are a marketing copywriter. Answer with a single JSON object and nothing else."

// TextClient generates marketing copy through the OpenAI chat-completion
// API. It satisfies ports.TextGenerator.
type TextClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewTextClient builds a TextClient. model defaults to gpt-4o-mini and
// timeout to 20s when zero.
func NewTextClient(apiKey, model string, timeout time.Duration) *TextClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = defaultTextTimeout
	}
	return &TextClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Generate sends the instruction as a single user message and returns the
// model's raw answer. JSON response format is requested so the answer
// parses without prose around it; code fences may still appear and are
// the caller's concern.
func (c *TextClient) Generate(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: provider returned an empty response", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
