// Package mcpserver exposes the knowledge base over the Model Context
// Protocol: an ask_documentation tool, a reindex tool, and a status
// resource.
package mcpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/confkb/confluence-kb/internal/kb"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server wraps the MCP server around a knowledge base.
type Server struct {
	kb     *kb.KnowledgeBase
	server *mcp.Server
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(knowledge *kb.KnowledgeBase) *Server {
	impl := &mcp.Implementation{
		Name:    "confluence-kb",
		Version: Version,
	}

	s := &Server{
		kb:     knowledge,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until the context is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
