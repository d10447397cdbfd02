// Package cli is the command line surface: the interactive menu and one-shot commands
// for syncing, asking, downloading and listing.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"legis_rag/internal/app"
	"legis_rag/internal/config"
)

var (
	basePath  string
	model     string
	ollamaURL string
)

var rootCmd = &cobra.Command{
	Use:   "legis_rag",
	Short: "Ask questions about a local library of Romanian legal acts",
	Long: `Keeps a local library of legal acts (domestic and EU), indexes them into a
keyword-searchable corpus and answers questions with a local Ollama model,
strictly from the retrieved passages.

Without a subcommand the interactive menu is started.`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&basePath, "base", "", "library root (LEGIS_BASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Ollama model (OLLAMA_MODEL)")
	rootCmd.PersistentFlags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL (OLLAMA_URL)")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newApp loads the configuration and builds the application.
// Flags win over the environment, the environment wins over .env.
func newApp(cmd *cobra.Command) (*app.App, error) {
	flagEnv := map[string]string{
		"base":       "LEGIS_BASE_PATH",
		"model":      "OLLAMA_MODEL",
		"ollama-url": "OLLAMA_URL",
	}
	for flag, key := range flagEnv {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		val, _ := cmd.Flags().GetString(flag)
		os.Setenv(key, val)
	}

	// .env опционален
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return app.New(&cfg, cmd.OutOrStdout())
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := a.Init(ctx); err != nil {
		return err
	}
	return a.Run(ctx, cmd.InOrStdin())
}
