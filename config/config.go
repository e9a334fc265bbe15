// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type ProviderConfig struct {
	Provider  string
	Model     string
	Dimension int
}

type Config struct {
	DataDir   string
	IndexPath string

	Store       string
	PostgresDSN string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	Embeddings ProviderConfig
	LLM        ProviderConfig

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaHost    string

	// Extraction knobs.
	RenderDPI   int
	OCRLanguage string
	PdftoppmBin string
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		DataDir:      getEnv("SHPE_DATA_DIR", "./data"),
		IndexPath:    getEnv("SHPE_INDEX_PATH", "./shpe_index.bin"),
		Store:        getEnv("SHPE_STORE", StoreFile),
		PostgresDSN:  getEnv("POSTGRES_DSN", "postgres://localhost:5432/shpe-assistant?sslmode=disable"),
		ChunkSize:    getEnvInt("SHPE_CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("SHPE_CHUNK_OVERLAP", 50),
		TopK:         getEnvInt("SHPE_TOP_K", 5),
		Embeddings: ProviderConfig{
			Provider:  getEnv("SHPE_EMBEDDINGS_PROVIDER", ProviderOpenAI),
			Model:     getEnv("SHPE_EMBEDDINGS_MODEL", "text-embedding-3-small"),
			Dimension: getEnvInt("SHPE_EMBEDDINGS_DIMENSION", 1536),
		},
		LLM: ProviderConfig{
			Provider: getEnv("SHPE_LLM_PROVIDER", ProviderOpenAI),
			Model:    getEnv("SHPE_LLM_MODEL", "gpt-4"),
		},
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		RenderDPI:     getEnvInt("SHPE_RENDER_DPI", 300),
		OCRLanguage:   getEnv("SHPE_OCR_LANGUAGE", "eng"),
		PdftoppmBin:   getEnv("SHPE_PDFTOPPM_BIN", "pdftoppm"),
	}
}

// Validate rejects configurations that cannot serve any request. A missing
// OpenAI credential with an openai provider selected is fatal at startup
// rather than a per-query error.
func (c Config) Validate() error {
	if c.Embeddings.Provider == ProviderOpenAI || c.LLM.Provider == ProviderOpenAI {
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
	}
	if c.Store != StoreFile && c.Store != StorePostgres {
		return fmt.Errorf("unknown store kind: %s", c.Store)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.Embeddings.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embeddings.Dimension)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
