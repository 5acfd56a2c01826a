// ABOUTME: MCP tool handler implementations for the textbook chatbot
// ABOUTME: Thin adapters from MCP requests to the chat and retrieval layers
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

const defaultSearchTopK = 5

// Answerer produces a chatbot response for a user message.
type Answerer interface {
	Answer(ctx context.Context, userMessage string) (string, []models.Source, error)
}

// Searcher retrieves and reranks textbook passages for a query.
type Searcher interface {
	SearchAndRerank(ctx context.Context, query string, searchTopK, rerankTopN int) []models.RetrievedChunk
}

// Handlers contains the handler functions for the MCP tools.
type Handlers struct {
	answerer Answerer
	searcher Searcher
	log      *zap.Logger
}

// AskTextbook handles the ask_textbook tool.
func (h *Handlers) AskTextbook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	answer, _, err := h.answerer.Answer(ctx, question)
	if err != nil {
		h.log.Error("ask_textbook failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to answer question: %v", err)), nil
	}

	return mcp.NewToolResultText(answer), nil
}

// SearchTextbook handles the search_textbook tool.
func (h *Handlers) SearchTextbook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	topK := request.GetInt("top_k", defaultSearchTopK)
	if topK <= 0 {
		topK = defaultSearchTopK
	}

	chunks := h.searcher.SearchAndRerank(ctx, query, topK*4, topK)

	type result struct {
		Title      string  `json:"title"`
		URL        string  `json:"url,omitempty"`
		Content    string  `json:"content"`
		Score      float64 `json:"score"`
		DocumentID string  `json:"document_id"`
	}
	results := make([]result, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, result{
			Title:      chunk.Title,
			URL:        chunk.URL,
			Content:    chunk.Content,
			Score:      chunk.Score,
			DocumentID: chunk.DocumentID,
		})
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"query":   query,
		"results": results,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}
