package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confkb/confluence-kb/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default the server communicates over stdio using JSON-RPC, the mode
MCP clients such as Claude Desktop expect. Use --port to serve over
HTTP instead.

On startup the index is checked against the configured sources and
rebuilt if the configuration changed since it was last built. Content
edits within an unchanged configuration are picked up by the reindex
tool or the reindex command, not automatically.

Examples:
  # Stdio mode (default, for MCP clients)
  confluence-kb serve

  # HTTP mode
  confluence-kb serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	knowledge, cleanup, err := buildKB()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := knowledge.EnsureFresh(cmd.Context()); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	server := mcpserver.NewServer(knowledge)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
