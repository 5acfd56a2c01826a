// ABOUTME: Provider interfaces consumed by the retrieval pipeline and composer
// ABOUTME: Implementations live in cohere_client.go and openai_client.go
package llm

import "context"

// EmbedPurpose selects the provider-side input type. The underlying models
// treat query-side and document-side text asymmetrically, so the tag must be
// threaded through correctly.
type EmbedPurpose string

const (
	// EmbedQuery marks search-time query text.
	EmbedQuery EmbedPurpose = "search_query"
	// EmbedDocument marks ingest-time document chunks.
	EmbedDocument EmbedPurpose = "search_document"
)

// Embedder converts texts into fixed-dimension vectors, one per input,
// order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string, purpose EmbedPurpose) ([][]float64, error)
}

// RankedDocument is one rerank result: the index into the submitted
// documents plus the cross-encoder relevance score.
type RankedDocument struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Reranker scores documents against a query and returns at most topN
// results ordered by descending relevance. Callers fall back to the
// original ordering on error.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)
}

// GenerateOptions bound the generation call.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// Generator produces an answer for a fully assembled prompt. Errors are
// fatal to the request and are not retried here.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
