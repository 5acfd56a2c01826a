// ABOUTME: Cohere API client for embed, rerank, and chat endpoints
// ABOUTME: Embed calls retry with exponential backoff; rerank and chat do not
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/util"
)

// DefaultCohereBaseURL is the public API endpoint.
const DefaultCohereBaseURL = "https://api.cohere.com"

// CohereConfig holds configuration for the Cohere client.
type CohereConfig struct {
	APIKey      string
	BaseURL     string
	EmbedModel  string
	RerankModel string
	ChatModel   string
	MaxRetries  int
	RetryDelay  time.Duration
	HTTPClient  *http.Client
}

// CohereClient implements Embedder, Reranker, and Generator against the
// Cohere REST API.
type CohereClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	embedModel  string
	rerankModel string
	chatModel   string
	maxRetries  int
	retryDelay  time.Duration
	log         *zap.Logger
}

// NewCohereClient creates a Cohere client. The API key is required.
func NewCohereClient(cfg CohereConfig, log *zap.Logger) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCohereBaseURL
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "embed-english-v3.0"
	}
	if cfg.RerankModel == "" {
		cfg.RerankModel = "rerank-english-v3.0"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "command-r-plus-08-2024"
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CohereClient{
		httpClient:  httpClient,
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		embedModel:  cfg.EmbedModel,
		rerankModel: cfg.RerankModel,
		chatModel:   cfg.ChatModel,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		log:         log.Named("cohere"),
	}, nil
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []RankedDocument `json:"results"`
}

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Embed generates one vector per input text. Transient failures are retried
// with exponential backoff (1s, 2s, 4s at the default delay); returns an
// error only after all attempts fail.
func (c *CohereClient) Embed(ctx context.Context, texts []string, purpose EmbedPurpose) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	req := embedRequest{
		Texts:     texts,
		Model:     c.embedModel,
		InputType: string(purpose),
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := util.Backoff(c.retryDelay, attempt)
			c.log.Warn("embed call failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var resp embedResponse
		if err := c.postJSON(ctx, "/v1/embed", req, &resp); err != nil {
			lastErr = err
			continue
		}
		if len(resp.Embeddings) != len(texts) {
			lastErr = fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
			continue
		}
		return resp.Embeddings, nil
	}

	return nil, fmt.Errorf("embed failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Rerank scores documents against the query. Not retried: the pipeline
// falls back to the original ordering on failure.
func (c *CohereClient) Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	req := rerankRequest{
		Model:     c.rerankModel,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	}

	var resp rerankResponse
	if err := c.postJSON(ctx, "/v1/rerank", req, &resp); err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	return resp.Results, nil
}

// Generate invokes the chat endpoint with the given prompt. Errors
// propagate to the caller; generation is never retried here.
func (c *CohereClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	req := chatRequest{
		Model:       c.chatModel,
		Message:     prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "/v1/chat", req, &resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return resp.Text, nil
}

// postJSON sends a JSON POST and decodes the JSON response body.
func (c *CohereClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
