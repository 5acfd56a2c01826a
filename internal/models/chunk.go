// ABOUTME: Retrieval result and citation models shared across the pipeline
// ABOUTME: RetrievedChunk flows from vector search through reranking into prompts
package models

// RetrievedChunk is a single retrieval hit with its payload from the vector
// index. Score carries cosine similarity when produced by vector search and
// is overwritten with the reranker's relevance score after reranking; the
// two live on different scales and are not comparable. VectorScore always
// keeps the original similarity so callers can tell the stages apart.
type RetrievedChunk struct {
	ID          string  `json:"id"`
	Content     string  `json:"content"`
	DocumentID  string  `json:"document_id"`
	ChunkIndex  int     `json:"chunk_index"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	VectorScore float64 `json:"vector_score,omitempty"`
}

// Source is the persisted citation summary derived from a RetrievedChunk.
type Source struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	DocumentID     string  `json:"document_id"`
	RelevanceScore float64 `json:"relevance_score"`
}

// sourcePreviewLen bounds the stored content preview.
const sourcePreviewLen = 100

// ToSource converts a chunk into its citation summary with a truncated
// content preview.
func (c RetrievedChunk) ToSource() Source {
	content := c.Content
	if runes := []rune(content); len(runes) > sourcePreviewLen {
		content = string(runes[:sourcePreviewLen]) + "..."
	}
	return Source{
		ID:             c.ID,
		Content:        content,
		DocumentID:     c.DocumentID,
		RelevanceScore: c.Score,
	}
}

// SourcesFromChunks maps retrieved chunks to citation summaries, keeping
// rerank order.
func SourcesFromChunks(chunks []RetrievedChunk) []Source {
	sources := make([]Source, len(chunks))
	for i, c := range chunks {
		sources[i] = c.ToSource()
	}
	return sources
}
