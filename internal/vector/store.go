// ABOUTME: Vector index interface and the document shape it stores
// ABOUTME: The Redis implementation lives in redis_store.go
package vector

import (
	"context"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// Document is one embedded chunk ready for indexing.
type Document struct {
	ID         string
	Content    string
	DocumentID string
	ChunkIndex int
	Title      string
	URL        string
	Vector     []float64
}

// Store is the external vector search service boundary. SearchByVector
// returns at most topK chunks ordered by descending cosine similarity; an
// empty index yields an empty slice, not an error.
type Store interface {
	Upsert(ctx context.Context, docs []Document) error
	SearchByVector(ctx context.Context, vec []float64, topK int) ([]models.RetrievedChunk, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
