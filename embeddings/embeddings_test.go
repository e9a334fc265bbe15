package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rusca02/shpe-assistant/config"
)

func TestNewEmbedderProviderSelection(t *testing.T) {
	cfg := config.Config{}
	cfg.Embeddings.Provider = config.ProviderOllama
	cfg.Embeddings.Model = "nomic-embed-text"
	cfg.Embeddings.Dimension = 768

	embedder, err := NewEmbedder(cfg)
	require.NoError(t, err)
	require.Equal(t, "ollama/nomic-embed-text", embedder.ModelInfo())
	require.Equal(t, 768, embedder.Dimension())
}

func TestNewEmbedderOpenAIRequiresAPIKey(t *testing.T) {
	cfg := config.Config{}
	cfg.Embeddings.Provider = config.ProviderOpenAI
	cfg.Embeddings.Model = "text-embedding-3-small"

	_, err := NewEmbedder(cfg)
	require.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	cfg := config.Config{}
	cfg.Embeddings.Provider = "cohere"

	_, err := NewEmbedder(cfg)
	require.ErrorContains(t, err, "unknown embedding provider")
}

func TestOllamaEmbedderPreservesInputOrder(t *testing.T) {
	vectors := map[string][]float64{
		"first":  {1, 0, 0},
		"second": {0, 1, 0},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/embeddings", r.URL.Path)
		var req embedPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "nomic-embed-text", req.Model)
		require.NoError(t, json.NewEncoder(w).Encode(embedReply{Embedding: vectors[req.Prompt]}))
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder(Options{
		OllamaHost: server.URL,
		Model:      "nomic-embed-text",
		Dimension:  3,
	})

	got, err := embedder.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1, 0, 0}, {0, 1, 0}}, got)
}

func TestOllamaEmbedderRejectsDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(embedReply{Embedding: []float64{1, 2}}))
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder(Options{OllamaHost: server.URL, Model: "m", Dimension: 3})
	_, err := embedder.Embed(context.Background(), []string{"text"})
	require.ErrorContains(t, err, "dimension mismatch")
}

func TestOllamaEmbedderSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	embedder := NewOllamaEmbedder(Options{OllamaHost: server.URL, Model: "missing", Dimension: 3})
	_, err := embedder.Embed(context.Background(), []string{"text"})
	require.ErrorContains(t, err, "model not found")
}
