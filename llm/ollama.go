package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ollamaClient struct {
	baseURL string
	model   string
	http    *http.Client
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model    string     `json:"model"`
	Messages []chatTurn `json:"messages"`
	Stream   bool       `json:"stream"`
}

type chatReply struct {
	Message chatTurn `json:"message"`
	Done    bool     `json:"done"`
	Error   string   `json:"error"`
}

func NewOllamaClient(opts Options) Client {
	baseURL := strings.TrimRight(opts.OllamaHost, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &ollamaClient{
		baseURL: baseURL,
		model:   opts.Model,
		// Refine chains make several sequential calls; the timeout bounds one
		// generation, not the whole chain.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ollamaClient) Generate(ctx context.Context, messages []Message) (string, error) {
	turns := make([]chatTurn, len(messages))
	for i, m := range messages {
		turns[i] = chatTurn{Role: m.Role, Content: m.Content}
	}

	var reply chatReply
	if err := c.post(ctx, "/api/chat", chatPayload{Model: c.model, Messages: turns}, &reply); err != nil {
		return "", err
	}
	if reply.Error != "" {
		return "", fmt.Errorf("ollama chat error: %s", reply.Error)
	}
	return reply.Message.Content, nil
}

func (c *ollamaClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call ollama %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("ollama %s: %s", path, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("ollama %s returned status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ollama response: %w", err)
	}
	return nil
}
