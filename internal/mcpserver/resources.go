package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// statusURI is the URI of the knowledge base status resource.
const statusURI = "confluence://knowledge-base"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "knowledge-base-status",
		Description: "Current state of the documentation index: what was indexed, when, and how much",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the index manifest and store counts.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.kb.Status()
	if err != nil {
		return nil, fmt.Errorf("reading index status: %w", err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
