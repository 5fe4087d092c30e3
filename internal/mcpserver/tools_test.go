package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/confkb/confluence-kb/internal/chunker"
	"github.com/confkb/confluence-kb/internal/kb"
	"github.com/confkb/confluence-kb/internal/normalize"
	"github.com/confkb/confluence-kb/internal/source"
	"github.com/confkb/confluence-kb/internal/storage"
)

type staticSource struct {
	docs   []source.Document
	spaces []string
}

func (s *staticSource) Fetch(ctx context.Context) ([]source.Document, error) {
	return s.docs, nil
}

func (s *staticSource) Descriptor() []string { return s.spaces }

// unitEmbedder returns the same vector for every text, so any stored chunk
// matches any query. Handler tests care about plumbing, not ranking.
type unitEmbedder struct{}

func (unitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (unitEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (unitEmbedder) Model() string { return "unit" }

func setupServer(t *testing.T, docs []source.Document) *Server {
	t.Helper()
	indexDir := t.TempDir()
	store, err := storage.NewDB(indexDir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	src := &staticSource{docs: docs, spaces: []string{"ENG"}}
	knowledge := kb.New(src, unitEmbedder{}, store, indexDir, chunker.New())
	return NewServer(knowledge)
}

func testDocs() []source.Document {
	return []source.Document{{
		ID:        "100",
		Title:     "Deploy Guide",
		Content:   "how to deploy the service",
		Origin:    source.OriginRemote,
		Kind:      normalize.Plain,
		SourceKey: "ENG",
		Locator:   "https://example.atlassian.net/wiki/spaces/ENG/pages/100",
	}}
}

func TestHandleReindex(t *testing.T) {
	server := setupServer(t, testDocs())

	_, output, err := server.handleReindex(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleReindex failed: %v", err)
	}
	if output.Documents != 1 {
		t.Errorf("documents = %d, want 1", output.Documents)
	}
	if output.Chunks != 1 {
		t.Errorf("chunks = %d, want 1", output.Chunks)
	}
	if !strings.Contains(output.Status, "reindexed 1 documents") {
		t.Errorf("status = %q", output.Status)
	}
}

func TestHandleAsk(t *testing.T) {
	server := setupServer(t, testDocs())
	ctx := context.Background()

	if _, _, err := server.handleReindex(ctx, nil, struct{}{}); err != nil {
		t.Fatal(err)
	}

	_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "how do we deploy"})
	if err != nil {
		t.Fatalf("handleAsk failed: %v", err)
	}
	if !strings.Contains(output.Answer, "Deploy Guide (Space: ENG)") {
		t.Errorf("answer = %q", output.Answer)
	}
	if !strings.Contains(output.Answer, "how to deploy the service") {
		t.Errorf("answer missing content: %q", output.Answer)
	}
}

func TestHandleAsk_EmptyIndex(t *testing.T) {
	server := setupServer(t, nil)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "anything"})
	if err != nil {
		t.Fatalf("handleAsk failed: %v", err)
	}
	if !strings.Contains(output.Answer, "No relevant documentation found") {
		t.Errorf("answer = %q, want no-results message", output.Answer)
	}
}

func TestHandleStatusResource(t *testing.T) {
	server := setupServer(t, testDocs())
	ctx := context.Background()

	if _, _, err := server.handleReindex(ctx, nil, struct{}{}); err != nil {
		t.Fatal(err)
	}

	req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: statusURI}}
	result, err := server.handleStatusResource(ctx, req)
	if err != nil {
		t.Fatalf("handleStatusResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(result.Contents))
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, `"built": true`) {
		t.Errorf("status = %s", text)
	}
	if !strings.Contains(text, `"chunks": 1`) {
		t.Errorf("status = %s", text)
	}
}
