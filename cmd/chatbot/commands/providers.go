// ABOUTME: Shared wiring helpers for CLI commands
// ABOUTME: Builds LLM providers, the vector store, and the retrieval pipeline from config
package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/chat"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/config"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/llm"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/logging"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/retrieval"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/vector"
)

// providers bundles the LLM-side dependencies for a configured backend.
type providers struct {
	embedder  llm.Embedder
	reranker  llm.Reranker // nil means pass-through ordering
	generator llm.Generator
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Debug)
}

// buildProviders selects the provider stack from config. The OpenAI path
// has no reranker; retrieval falls back to vector order.
func buildProviders(cfg *config.Config, log *zap.Logger) (*providers, error) {
	switch cfg.Provider {
	case config.ProviderCohere:
		client, err := llm.NewCohereClient(llm.CohereConfig{
			APIKey:      cfg.CohereAPIKey,
			BaseURL:     cfg.CohereBaseURL,
			EmbedModel:  cfg.EmbedModel,
			RerankModel: cfg.RerankModel,
			ChatModel:   cfg.ChatModel,
			MaxRetries:  cfg.MaxRetries,
			RetryDelay:  cfg.RetryDelay,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Cohere client: %w", err)
		}
		return &providers{embedder: client, reranker: client, generator: client}, nil

	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.OpenAIChatModel,
			EmbedModel: cfg.OpenAIEmbedModel,
			Dimensions: cfg.VectorDim,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return &providers{embedder: client, generator: client}, nil

	default:
		return nil, fmt.Errorf("unknown provider %q (want cohere or openai)", cfg.Provider)
	}
}

func buildVectorStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*vector.RedisStore, error) {
	store, err := vector.NewRedisStore(ctx, vector.RedisConfig{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		IndexName: cfg.VectorIndexName,
		VectorDim: cfg.VectorDim,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return store, nil
}

func buildComposer(p *providers, store vector.Store, cfg *config.Config, log *zap.Logger) *chat.Composer {
	pipeline := retrieval.New(p.embedder, store, p.reranker, log)
	return chat.New(pipeline, p.generator, chat.Options{
		SearchTopK:  cfg.RetrievalLimit,
		RerankTopN:  cfg.RerankTopK,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, log)
}
