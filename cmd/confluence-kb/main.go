// confluence-kb indexes Confluence spaces or a local documentation
// directory and answers questions against the index, from the command
// line or as an MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/confkb/confluence-kb/internal/cli"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
