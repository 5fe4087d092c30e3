// Package cli implements the confluence-kb command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/confkb/confluence-kb/confluence"
	"github.com/confkb/confluence-kb/internal/chunker"
	"github.com/confkb/confluence-kb/internal/config"
	"github.com/confkb/confluence-kb/internal/embedding"
	"github.com/confkb/confluence-kb/internal/kb"
	"github.com/confkb/confluence-kb/internal/source"
	"github.com/confkb/confluence-kb/internal/storage"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "confluence-kb",
	Short: "Searchable knowledge base over Confluence spaces or local docs",
	Long: `confluence-kb indexes documentation from Confluence spaces or a local
directory into a local vector index and answers questions against it,
either from the command line or as an MCP server.

Configuration comes from the environment (a .env file is loaded if
present). Set CONFLUENCE_URL, CONFLUENCE_EMAIL, CONFLUENCE_API_TOKEN and
CONFLUENCE_SPACES for a Confluence source, or KB_DOCS_DIR for a local
directory, plus OPENAI_API_KEY for embeddings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildKB wires config, source, embedder, and storage into a knowledge
// base. The returned cleanup closes the index database.
func buildKB() (*kb.KnowledgeBase, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	var src source.Source
	if cfg.Remote() {
		client := confluence.NewClient(cfg.ConfluenceURL, cfg.ConfluenceEmail, cfg.ConfluenceToken)
		src = source.NewConfluence(client, cfg.Spaces)
	} else {
		src, err = source.NewDir(cfg.DocsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve docs directory: %w", err)
		}
	}

	embedder, err := embedding.NewOpenAI(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewDB(cfg.IndexDir)
	if err != nil {
		return nil, nil, err
	}

	ch := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)

	knowledge := kb.New(src, embedder, store, cfg.IndexDir, ch)
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing index database", "error", err)
		}
	}
	return knowledge, cleanup, nil
}
