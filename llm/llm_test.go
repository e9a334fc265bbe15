package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rusca02/shpe-assistant/config"
)

func TestNewClientProviderSelection(t *testing.T) {
	cfg := config.Config{}
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.Model = "llama3"

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClientOpenAIRequiresAPIKey(t *testing.T) {
	cfg := config.Config{}
	cfg.LLM.Provider = config.ProviderOpenAI
	cfg.LLM.Model = "gpt-4"

	_, err := NewClient(cfg)
	require.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestNewClientUnknownProvider(t *testing.T) {
	cfg := config.Config{}
	cfg.LLM.Provider = "anthropic"

	_, err := NewClient(cfg)
	require.ErrorContains(t, err, "unknown llm provider")
}

func TestOllamaClientSendsMessagesAndReadsReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)

		var req chatPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "llama3", req.Model)
		require.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		require.Equal(t, RoleSystem, req.Messages[0].Role)
		require.Equal(t, "hello", req.Messages[1].Content)

		require.NoError(t, json.NewEncoder(w).Encode(chatReply{
			Message: chatTurn{Role: RoleAssistant, Content: "hi there"},
			Done:    true,
		}))
	}))
	defer server.Close()

	client := NewOllamaClient(Options{OllamaHost: server.URL, Model: "llama3"})
	reply, err := client.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	require.Equal(t, "hi there", reply)
}

func TestOllamaClientSurfacesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(Options{OllamaHost: server.URL, Model: "missing"})
	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.ErrorContains(t, err, "model not found")
}

func TestOllamaClientSurfacesInlineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(chatReply{Error: "out of memory"}))
	}))
	defer server.Close()

	client := NewOllamaClient(Options{OllamaHost: server.URL, Model: "llama3"})
	_, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hello"}})
	require.ErrorContains(t, err, "out of memory")
}
