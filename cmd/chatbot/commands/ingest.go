// ABOUTME: Ingest command indexes textbook content into the vector store
// ABOUTME: Loads files from a directory, chunks, embeds, and upserts
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/config"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/ingest"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Index textbook content into the vector store",
		Long: `Index textbook content into the vector store.

Walks the given directory, chunks every markdown and text file, embeds the
chunks, and upserts them into the Redis vector index. Re-running overwrites
existing chunks in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
		Example: `  # Index the docs directory
  chatbot ingest ./docs`,
	}
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	provs, err := buildProviders(cfg, log)
	if err != nil {
		return err
	}
	store, err := buildVectorStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ingester := ingest.NewIngester(
		provs.embedder,
		store,
		ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		cfg.EmbeddingBatchSize,
		log,
	)

	n, err := ingester.IngestDir(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	log.Info("done", zap.Int("chunks_indexed", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s\n", n, args[0])
	return nil
}
