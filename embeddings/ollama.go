package embeddings

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

type ollamaEmbedder struct {
	baseURL   string
	model     string
	dimension int
	http      *http.Client
}

type embedPayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedReply struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error"`
}

func NewOllamaEmbedder(opts Options) Embedder {
	baseURL := strings.TrimRight(opts.OllamaHost, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &ollamaEmbedder{
		baseURL:   baseURL,
		model:     opts.Model,
		dimension: opts.Dimension,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Embed calls the embeddings endpoint once per text; the API has no batch
// form. Input order is preserved.
func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (e *ollamaEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedPayload{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ollama embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return nil, fmt.Errorf("ollama embeddings: %s", strings.TrimSpace(string(data)))
		}
		return nil, fmt.Errorf("ollama embeddings returned status %s", resp.Status)
	}

	var reply embedReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("ollama embeddings error: %s", reply.Error)
	}

	vec := make([]float32, len(reply.Embedding))
	for i, v := range reply.Embedding {
		vec[i] = float32(v)
	}
	if e.dimension > 0 && len(vec) != e.dimension {
		return nil, fmt.Errorf("ollama embedding dimension mismatch: expected %d, got %d", e.dimension, len(vec))
	}
	return vec, nil
}

func (e *ollamaEmbedder) Dimension() int {
	return e.dimension
}

func (e *ollamaEmbedder) ModelInfo() string {
	return "ollama/" + e.model
}
