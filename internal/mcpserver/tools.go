package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask_documentation tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from the documentation"`
	NumSources int    `json:"num_sources,omitempty" jsonschema:"how many documentation sections to return (default 5)"`
}

// AskOutput is the output schema for the ask_documentation tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	Skipped   int    `json:"skipped,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_documentation",
		Description: "Answer a question using the indexed documentation. Returns the most relevant sections with their titles and locations.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reindex",
		Description: "Fetch all configured documentation again and rebuild the search index from scratch.",
	}, s.handleReindex)
}

// handleAsk handles the ask_documentation tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	numSources := input.NumSources
	if numSources <= 0 {
		numSources = 5
	}

	answer, err := s.kb.Ask(ctx, input.Question, numSources)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer}, nil
}

// handleReindex handles the reindex tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ReindexOutput, error) {
	summary, err := s.kb.Reindex(ctx)
	if err != nil {
		return nil, ReindexOutput{}, err
	}

	return nil, ReindexOutput{
		Status: fmt.Sprintf("reindexed %d documents into %d chunks in %s",
			summary.Documents, summary.Chunks, summary.Duration.Round(10*time.Millisecond)),
		Documents: summary.Documents,
		Chunks:    summary.Chunks,
		Skipped:   summary.Skipped,
	}, nil
}
