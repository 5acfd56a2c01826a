// ABOUTME: MCP tool definitions and registration for the textbook chatbot
// ABOUTME: Exposes ask_textbook and search_textbook over the MCP protocol
package mcp

import (
	"go.uber.org/zap"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all tools with the MCP server.
func RegisterTools(server *mcpserver.MCPServer, answerer Answerer, searcher Searcher, log *zap.Logger) *Handlers {
	handlers := &Handlers{
		answerer: answerer,
		searcher: searcher,
		log:      log.Named("mcp"),
	}

	server.AddTool(mcp.Tool{
		Name:        "ask_textbook",
		Description: "Ask a question about the textbook. Returns a grounded answer with source citations, or a canned reply for greetings and off-topic questions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the textbook",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskTextbook)

	server.AddTool(mcp.Tool{
		Name:        "search_textbook",
		Description: "Search the textbook for passages relevant to a query. Returns the top matching chunks with relevance scores, without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of passages to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchTextbook)

	return handlers
}
