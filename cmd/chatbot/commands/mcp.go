// ABOUTME: MCP command starts a Model Context Protocol server over stdio
// ABOUTME: Exposes ask_textbook and search_textbook to LLM agents
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/config"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/mcp"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/retrieval"
)

// NewMCPCmd creates the MCP command.
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents.

Runs the chatbot as an MCP (Model Context Protocol) server on stdio,
exposing textbook question answering and passage search as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an agent host)
  chatbot mcp`,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provs, err := buildProviders(cfg, log)
	if err != nil {
		return err
	}
	store, err := buildVectorStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	composer := buildComposer(provs, store, cfg, log)
	pipeline := retrieval.New(provs.embedder, store, provs.reranker, log)

	server := mcpserver.NewMCPServer(
		"Textbook Chatbot",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, composer, pipeline, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	log.Info("MCP server listening on stdio")
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
