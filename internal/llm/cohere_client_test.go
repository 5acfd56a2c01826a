// ABOUTME: Tests for the Cohere HTTP client
// ABOUTME: httptest servers verify wire format, retry behavior, and error paths
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *CohereClient {
	t.Helper()
	client, err := NewCohereClient(CohereConfig{
		APIKey:     "test-key",
		BaseURL:    url,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNewCohereClientRequiresAPIKey(t *testing.T) {
	_, err := NewCohereClient(CohereConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestEmbedSendsInputTypeAndAuth(t *testing.T) {
	var got embedRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float64{{0.1, 0.2}, {0.3, 0.4}}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	vecs, err := client.Embed(context.Background(), []string{"a", "b"}, EmbedDocument)

	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2}, vecs[0])
	assert.Equal(t, "search_document", got.InputType)
	assert.Equal(t, []string{"a", "b"}, got.Texts)
	assert.Equal(t, "Bearer test-key", auth)
}

func TestEmbedRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float64{{1.0}}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	vecs, err := client.Embed(context.Background(), []string{"q"}, EmbedQuery)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "two failures then one success")
	assert.Equal(t, []float64{1.0}, vecs[0])
}

func TestEmbedGivesUpAfterAllRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Embed(context.Background(), []string{"q"}, EmbedQuery)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed failed after 4 attempts")
	assert.Equal(t, int32(4), calls.Load(), "initial call plus three retries")
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	_, err := client.Embed(context.Background(), nil, EmbedQuery)
	require.Error(t, err)
}

func TestEmbedRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewCohereClient(CohereConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryDelay: time.Hour, // the wait must be interrupted, not served
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Embed(ctx, []string{"q"}, EmbedQuery)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRerankParsesResults(t *testing.T) {
	var got rerankRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rerank", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(rerankResponse{Results: []RankedDocument{
			{Index: 1, RelevanceScore: 0.93},
			{Index: 0, RelevanceScore: 0.41},
		}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ranked, err := client.Rerank(context.Background(), "query", []string{"doc a", "doc b"}, 2)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Index)
	assert.InDelta(t, 0.93, ranked[0].RelevanceScore, 1e-9)
	assert.Equal(t, 2, got.TopN)
	assert.Equal(t, "query", got.Query)
}

func TestRerankEmptyDocumentsIsNoop(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	ranked, err := client.Rerank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	assert.Nil(t, ranked)
}

func TestRerankErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Rerank(context.Background(), "query", []string{"doc"}, 1)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateReturnsText(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatResponse{Text: "grounded answer"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	text, err := client.Generate(context.Background(), "prompt", GenerateOptions{MaxTokens: 500, Temperature: 0.3})

	require.NoError(t, err)
	assert.Equal(t, "grounded answer", text)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
}

func TestGenerateErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), "prompt", GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
