package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from scratch",
	Long: `Fetch all configured documentation again and rebuild the index.

The rebuild is atomic: queries against a running server keep seeing the
previous index until the new one is fully built.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	knowledge, cleanup, err := buildKB()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := knowledge.Reindex(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into %d chunks in %s",
		summary.Documents, summary.Chunks, summary.Duration.Round(10*time.Millisecond))
	if summary.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", summary.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
