package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed documentation",
	Long: `Answer a question by retrieving the most relevant documentation
sections from the index.

Examples:
  confluence-kb ask "how do we rotate the API keys"
  confluence-kb ask --sources 3 "deployment checklist"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntP("sources", "n", 5, "number of documentation sections to return")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	numSources, err := cmd.Flags().GetInt("sources")
	if err != nil {
		return fmt.Errorf("getting sources flag: %w", err)
	}

	knowledge, cleanup, err := buildKB()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := knowledge.EnsureFresh(cmd.Context()); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	question := strings.Join(args, " ")
	answer, err := knowledge.Ask(cmd.Context(), question, numSources)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
