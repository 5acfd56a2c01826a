// ABOUTME: The search_and_rerank pipeline: embed query, vector search, rerank
// ABOUTME: Retrieval-side failures degrade to empty or pass-through, never crash
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/llm"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/vector"
)

// Pipeline composes the embedding client, the vector store, and the
// reranker into one search-and-rerank operation.
type Pipeline struct {
	embedder llm.Embedder
	store    vector.Store
	reranker llm.Reranker
	log      *zap.Logger
}

// New creates a retrieval pipeline. The reranker is optional: when nil,
// search results pass through in similarity order, truncated to topN.
func New(embedder llm.Embedder, store vector.Store, reranker llm.Reranker, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		embedder: embedder,
		store:    store,
		reranker: reranker,
		log:      log.Named("retrieval"),
	}
}

// SearchAndRerank runs the full pipeline. Two early exits: a failed or
// empty query embedding, and an empty search result (reranking is skipped
// when there is nothing to rerank). Never returns an error; a failed
// retrieval is an empty context, which callers must treat as "no
// information found" rather than a crash.
func (p *Pipeline) SearchAndRerank(ctx context.Context, query string, searchTopK, rerankTopN int) []models.RetrievedChunk {
	queryVec := p.embedQuery(ctx, query)
	if len(queryVec) == 0 {
		return nil
	}

	candidates := p.searchDocuments(ctx, queryVec, searchTopK)
	if len(candidates) == 0 {
		p.log.Warn("no search results found, skipping rerank", zap.String("query", truncate(query, 80)))
		return nil
	}

	return p.rerankDocuments(ctx, query, candidates, rerankTopN)
}

// embedQuery embeds the query text. Total failure surfaces as an empty
// vector: degrading to "no context" beats aborting the whole answer.
func (p *Pipeline) embedQuery(ctx context.Context, query string) []float64 {
	vecs, err := p.embedder.Embed(ctx, []string{query}, llm.EmbedQuery)
	if err != nil {
		p.log.Error("failed to embed query", zap.Error(err))
		return nil
	}
	if len(vecs) == 0 {
		return nil
	}
	return vecs[0]
}

// searchDocuments looks up nearest chunks. Lookup errors are logged and
// swallowed; an outage and an empty index both yield an empty slice.
func (p *Pipeline) searchDocuments(ctx context.Context, queryVec []float64, topK int) []models.RetrievedChunk {
	chunks, err := p.store.SearchByVector(ctx, queryVec, topK)
	if err != nil {
		p.log.Error("vector search failed", zap.Error(err))
		return nil
	}
	return chunks
}

// rerankDocuments reorders candidates by cross-encoder relevance. On any
// failure the original, similarity-ordered candidates pass through,
// truncated to topN: reranking is a quality optimization, not a
// correctness requirement.
func (p *Pipeline) rerankDocuments(ctx context.Context, query string, candidates []models.RetrievedChunk, topN int) []models.RetrievedChunk {
	if topN > len(candidates) {
		topN = len(candidates)
	}
	if p.reranker == nil {
		return candidates[:topN]
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	ranked, err := p.reranker.Rerank(ctx, query, texts, topN)
	if err != nil {
		p.log.Warn("rerank failed, falling back to search order", zap.Error(err))
		return candidates[:topN]
	}

	results := make([]models.RetrievedChunk, 0, topN)
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(candidates) {
			continue
		}
		chunk := candidates[r.Index]
		chunk.VectorScore = chunk.Score
		chunk.Score = r.RelevanceScore
		results = append(results, chunk)
		if len(results) == topN {
			break
		}
	}
	return results
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
