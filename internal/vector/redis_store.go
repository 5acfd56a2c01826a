// ABOUTME: Redis/RediSearch vector index with HNSW cosine search
// ABOUTME: Chunks live in hashes under chunk:<id>; vectors are FLOAT32 blobs
package vector

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

const (
	defaultEFConstruction = 200
	defaultM              = 16

	keyPrefix = "chunk:"

	// Field names in the Redis hash
	fieldContent    = "content"
	fieldVector     = "vector"
	fieldDocumentID = "document_id"
	fieldChunkIndex = "chunk_index"
	fieldTitle      = "title"
	fieldURL        = "url"
	fieldCreatedAt  = "created_at"

	// Alias assigned to the KNN distance in search queries
	fieldScore = "vector_score"
)

// RedisConfig holds Redis connection and index configuration.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IndexName      string
	VectorDim      int
	EFConstruction int
	M              int
}

// RedisStore implements Store on RediSearch.
type RedisStore struct {
	client    *redis.Client
	indexName string
	dim       int
	log       *zap.Logger
}

// NewRedisStore connects to Redis and ensures the vector index exists.
func NewRedisStore(ctx context.Context, cfg RedisConfig, log *zap.Logger) (*RedisStore, error) {
	if cfg.VectorDim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", cfg.VectorDim)
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "document_chunks"
	}
	if cfg.EFConstruction <= 0 {
		cfg.EFConstruction = defaultEFConstruction
	}
	if cfg.M <= 0 {
		cfg.M = defaultM
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		// RESP2 keeps FT.SEARCH replies in the flat array shape parsed below.
		Protocol: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s := &RedisStore{
		client:    client,
		indexName: cfg.IndexName,
		dim:       cfg.VectorDim,
		log:       log.Named("vector"),
	}

	if err := s.ensureIndex(ctx, cfg.EFConstruction, cfg.M); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}

	return s, nil
}

// ensureIndex creates the HNSW index if it does not already exist.
func (s *RedisStore) ensureIndex(ctx context.Context, efConstruction, m int) error {
	if _, err := s.client.Do(ctx, "FT.INFO", s.indexName).Result(); err == nil {
		return nil
	}

	_, err := s.client.Do(ctx, "FT.CREATE", s.indexName,
		"ON", "HASH",
		"PREFIX", "1", keyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(s.dim),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(efConstruction),
		"M", strconv.Itoa(m),
		fieldContent, "TEXT",
		fieldDocumentID, "TAG",
		fieldTitle, "TEXT",
		fieldURL, "TEXT", "NOSTEM",
		fieldChunkIndex, "NUMERIC",
		fieldCreatedAt, "NUMERIC",
	).Result()
	if err != nil {
		return fmt.Errorf("FT.CREATE %s: %w", s.indexName, err)
	}

	s.log.Info("created vector index",
		zap.String("index", s.indexName),
		zap.Int("dim", s.dim))
	return nil
}

// Upsert writes documents and their vectors in a single pipeline.
func (s *RedisStore) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	now := time.Now().Unix()
	pipe := s.client.Pipeline()
	for _, doc := range docs {
		if len(doc.Vector) != s.dim {
			return fmt.Errorf("document %s: vector dimension %d does not match index dimension %d", doc.ID, len(doc.Vector), s.dim)
		}
		pipe.HSet(ctx, keyPrefix+doc.ID,
			fieldContent, doc.Content,
			fieldVector, encodeVector(doc.Vector),
			fieldDocumentID, doc.DocumentID,
			fieldChunkIndex, doc.ChunkIndex,
			fieldTitle, doc.Title,
			fieldURL, doc.URL,
			fieldCreatedAt, now,
		)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert %d documents: %w", len(docs), err)
	}
	return nil
}

// SearchByVector runs a KNN query and returns chunks ordered by descending
// cosine similarity.
func (s *RedisStore) SearchByVector(ctx context.Context, vec []float64, topK int) ([]models.RetrievedChunk, error) {
	if len(vec) != s.dim {
		return nil, fmt.Errorf("query vector dimension %d does not match index dimension %d", len(vec), s.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf("*=>[KNN %d @%s $query_vector AS %s]", topK, fieldVector, fieldScore)
	reply, err := s.client.Do(ctx, "FT.SEARCH", s.indexName, query,
		"PARAMS", "2", "query_vector", encodeVector(vec),
		"RETURN", "6", fieldContent, fieldDocumentID, fieldChunkIndex, fieldTitle, fieldURL, fieldScore,
		"SORTBY", fieldScore, "ASC",
		"LIMIT", "0", strconv.Itoa(topK),
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("FT.SEARCH %s: %w", s.indexName, err)
	}

	return parseSearchReply(reply)
}

// Count returns the number of indexed chunks.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	info, err := s.client.Do(ctx, "FT.INFO", s.indexName).Result()
	if err != nil {
		return 0, fmt.Errorf("FT.INFO %s: %w", s.indexName, err)
	}

	values, ok := info.([]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected FT.INFO reply type %T", info)
	}
	for i := 0; i+1 < len(values); i += 2 {
		if key, ok := values[i].(string); ok && key == "num_docs" {
			return parseRedisInt(values[i+1])
		}
	}
	return 0, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping reports connectivity, used by the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// encodeVector converts a vector to the little-endian FLOAT32 blob
// RediSearch expects for VECTOR fields.
func encodeVector(vec []float64) []byte {
	buf := new(bytes.Buffer)
	for _, v := range vec {
		binary.Write(buf, binary.LittleEndian, float32(v))
	}
	return buf.Bytes()
}

// decodeVector reverses encodeVector. Used in tests.
func decodeVector(data []byte) []float64 {
	vec := make([]float64, len(data)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		vec[i] = float64(math.Float32frombits(bits))
	}
	return vec
}

// parseSearchReply parses a RESP2 FT.SEARCH reply: total count followed by
// alternating key / field-list pairs.
func parseSearchReply(reply interface{}) ([]models.RetrievedChunk, error) {
	values, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected FT.SEARCH reply type %T", reply)
	}
	if len(values) <= 1 {
		return nil, nil
	}

	var chunks []models.RetrievedChunk
	for i := 1; i+1 < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		fields, ok := values[i+1].([]interface{})
		if !ok {
			continue
		}

		chunk := models.RetrievedChunk{ID: strings.TrimPrefix(key, keyPrefix)}
		for j := 0; j+1 < len(fields); j += 2 {
			name, ok := fields[j].(string)
			if !ok {
				continue
			}
			value, _ := fields[j+1].(string)
			switch name {
			case fieldContent:
				chunk.Content = value
			case fieldDocumentID:
				chunk.DocumentID = value
			case fieldTitle:
				chunk.Title = value
			case fieldURL:
				chunk.URL = value
			case fieldChunkIndex:
				if n, err := strconv.Atoi(value); err == nil {
					chunk.ChunkIndex = n
				}
			case fieldScore:
				if dist, err := strconv.ParseFloat(value, 64); err == nil {
					chunk.Score = distanceToSimilarity(dist)
					chunk.VectorScore = chunk.Score
				}
			}
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// distanceToSimilarity converts the cosine distance RediSearch reports into
// a similarity in [0, 1].
func distanceToSimilarity(dist float64) float64 {
	sim := 1 - dist
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func parseRedisInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected numeric reply type %T", v)
	}
}
