// ABOUTME: Serve command runs the HTTP API
// ABOUTME: Wires config, providers, Redis, Postgres, and the gin server
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/config"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/server"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/storage/postgres"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chatbot HTTP API",
		Long: `Start the chatbot HTTP API.

Serves conversation endpoints backed by the vector index and conversation
store. Requires Redis, Postgres, and a configured LLM provider.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
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

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	composer := buildComposer(provs, store, cfg, log)
	chatHandler := server.NewChatHandler(
		composer,
		postgres.NewConversationRepository(db),
		postgres.NewMessageRepository(db),
		log,
	)
	queryHandler := server.NewQueryHandler(composer, log)

	srv := server.New(cfg.ListenAddr, chatHandler, queryHandler, store, db, cfg.Debug, log)
	log.Info("starting server",
		zap.String("provider", cfg.Provider),
		zap.String("addr", cfg.ListenAddr))
	return srv.Run(ctx)
}
