package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	api   *openai.Client
	model string
}

func NewOpenAIClient(opts Options) Client {
	cfg := openai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}
	return &openAIClient{api: openai.NewClientWithConfig(cfg), model: opts.Model}
}

func (c *openAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	chat := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chat[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	// Low temperature keeps successive refine passes from rewriting parts of
	// the draft the new context did not touch.
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chat,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
