// ABOUTME: Root command setup for the textbook chatbot CLI
// ABOUTME: Loads .env, builds the command tree, and runs it
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatbot",
		Short: "Retrieval-augmented chatbot for a published textbook",
		Long: `Textbook chatbot backend.

Answers reader questions grounded in the textbook's content: questions are
classified by intent, relevant passages are retrieved and reranked, and the
answer is generated strictly from that context with source citations.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; real deployments use the environment directly
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
