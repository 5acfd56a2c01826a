// ABOUTME: Centralized configuration for the chatbot backend
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names selectable via LLM_PROVIDER.
const (
	ProviderCohere = "cohere"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the backend.
type Config struct {
	// Provider selection
	Provider string

	// Cohere settings
	CohereAPIKey  string
	CohereBaseURL string
	EmbedModel    string
	RerankModel   string
	ChatModel     string

	// OpenAI-compatible settings (used when Provider == "openai")
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIChatModel string
	OpenAIEmbedModel string

	// Redis vector index
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	VectorIndexName string
	VectorDim       int

	// Postgres
	DatabaseURL string

	// HTTP server
	ListenAddr string
	Debug      bool

	// Retrieval tuning
	RetrievalLimit int
	RerankTopK     int
	MaxTokens      int
	Temperature    float64

	// Ingestion
	ChunkSize          int
	ChunkOverlap       int
	EmbeddingBatchSize int

	// Retry policy for provider calls
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Provider: getEnv("LLM_PROVIDER", ProviderCohere),

		CohereAPIKey:  os.Getenv("COHERE_API_KEY"),
		CohereBaseURL: getEnv("COHERE_BASE_URL", "https://api.cohere.com"),
		EmbedModel:    getEnv("EMBED_MODEL", "embed-english-v3.0"),
		RerankModel:   getEnv("RERANK_MODEL", "rerank-english-v3.0"),
		ChatModel:     getEnv("CHAT_MODEL", "command-r-plus-08-2024"),

		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIChatModel:  getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIEmbedModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		VectorIndexName: getEnv("VECTOR_INDEX_NAME", "document_chunks"),
		VectorDim:       getEnvInt("VECTOR_DIM", 1024),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),
		Debug:      getEnvBool("DEBUG", false),

		RetrievalLimit: getEnvInt("RETRIEVAL_LIMIT", 20),
		RerankTopK:     getEnvInt("RERANK_TOP_K", 5),
		MaxTokens:      getEnvInt("GENERATION_MAX_TOKENS", 500),
		Temperature:    getEnvFloat("GENERATION_TEMPERATURE", 0.3),

		ChunkSize:          getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap:       getEnvInt("CHUNK_OVERLAP", 50),
		EmbeddingBatchSize: getEnvInt("EMBEDDING_BATCH_SIZE", 10),

		MaxRetries: getEnvInt("PROVIDER_MAX_RETRIES", 3),
		RetryDelay: getEnvDuration("PROVIDER_RETRY_DELAY", time.Second),
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Provider != ProviderCohere && c.Provider != ProviderOpenAI {
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderCohere, ProviderOpenAI, c.Provider)
	}
	if c.VectorDim <= 0 {
		return fmt.Errorf("VECTOR_DIM must be positive, got %d", c.VectorDim)
	}
	if c.RetrievalLimit <= 0 {
		return fmt.Errorf("RETRIEVAL_LIMIT must be positive, got %d", c.RetrievalLimit)
	}
	if c.RerankTopK <= 0 {
		return fmt.Errorf("RERANK_TOP_K must be positive, got %d", c.RerankTopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
