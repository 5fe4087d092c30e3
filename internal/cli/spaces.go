package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confkb/confluence-kb/confluence"
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List the Confluence spaces visible to your account",
	Long: `List every Confluence space your credentials can see, with a ready-made
CONFLUENCE_SPACES value to copy into your environment.

Only CONFLUENCE_URL, CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN are
needed; this is the discovery step before choosing which spaces to
index.`,
	Args: cobra.NoArgs,
	RunE: runSpaces,
}

func init() {
	rootCmd.AddCommand(spacesCmd)
}

func runSpaces(cmd *cobra.Command, _ []string) error {
	baseURL := strings.TrimRight(os.Getenv("CONFLUENCE_URL"), "/")
	email := os.Getenv("CONFLUENCE_EMAIL")
	token := os.Getenv("CONFLUENCE_API_TOKEN")
	if baseURL == "" || email == "" || token == "" {
		return fmt.Errorf("missing required environment variables: CONFLUENCE_URL, CONFLUENCE_EMAIL, CONFLUENCE_API_TOKEN")
	}

	client := confluence.NewClient(baseURL, email, token)
	spaces, err := client.AllSpaces(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing spaces: %w", err)
	}

	if len(spaces) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No spaces visible to this account.")
		return nil
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tNAME")
	keys := make([]string, 0, len(spaces))
	for _, s := range spaces {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Type, s.Name)
		keys = append(keys, s.Key)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTo index all of them:\n  export CONFLUENCE_SPACES=%q\n", strings.Join(keys, ","))
	return nil
}
