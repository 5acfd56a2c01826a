// ABOUTME: Indexing pipeline: load, chunk, embed in batches, upsert to the vector store
// ABOUTME: One embed call per batch keeps ingestion within provider rate limits
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/llm"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/vector"
)

// Ingester indexes textbook content into the vector store.
type Ingester struct {
	embedder  llm.Embedder
	store     vector.Store
	chunker   *Chunker
	batchSize int
	log       *zap.Logger
}

// NewIngester wires the pipeline.
func NewIngester(embedder llm.Embedder, store vector.Store, chunker *Chunker, batchSize int, log *zap.Logger) *Ingester {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Ingester{
		embedder:  embedder,
		store:     store,
		chunker:   chunker,
		batchSize: batchSize,
		log:       log.Named("ingest"),
	}
}

// IngestDir loads every source file under root and indexes it. Returns the
// number of chunks written.
func (ing *Ingester) IngestDir(ctx context.Context, root string) (int, error) {
	docs, err := LoadDir(root)
	if err != nil {
		return 0, fmt.Errorf("failed to load documents: %w", err)
	}
	ing.log.Info("loaded documents", zap.Int("count", len(docs)))

	total := 0
	for _, doc := range docs {
		n, err := ing.IngestDocument(ctx, doc)
		if err != nil {
			return total, fmt.Errorf("failed to ingest %s: %w", doc.ID, err)
		}
		total += n
	}

	ing.log.Info("ingestion complete", zap.Int("documents", len(docs)), zap.Int("chunks", total))
	return total, nil
}

// IngestDocument chunks one document, embeds the chunks in batches, and
// upserts them. Chunk IDs are stable so re-ingestion overwrites in place.
func (ing *Ingester) IngestDocument(ctx context.Context, doc Document) (int, error) {
	chunks := ing.chunker.Split(doc.Content)
	if len(chunks) == 0 {
		ing.log.Warn("document produced no chunks", zap.String("document_id", doc.ID))
		return 0, nil
	}

	for start := 0; start < len(chunks); start += ing.batchSize {
		end := start + ing.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := ing.embedder.Embed(ctx, batch, llm.EmbedDocument)
		if err != nil {
			return start, fmt.Errorf("failed to embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return start, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(vectors), len(batch))
		}

		stored := make([]vector.Document, len(batch))
		for i, content := range batch {
			idx := start + i
			stored[i] = vector.Document{
				ID:         fmt.Sprintf("%s_%d", doc.ID, idx),
				Content:    content,
				DocumentID: doc.ID,
				ChunkIndex: idx,
				Title:      doc.Title,
				URL:        doc.URL,
				Vector:     vectors[i],
			}
		}
		if err := ing.store.Upsert(ctx, stored); err != nil {
			return start, fmt.Errorf("failed to upsert batch: %w", err)
		}
	}

	ing.log.Info("indexed document",
		zap.String("document_id", doc.ID),
		zap.String("title", doc.Title),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}
