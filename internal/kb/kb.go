// Package kb ties sources, chunking, embedding, and storage together into
// the knowledge base used by the MCP tools and the CLI.
package kb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/confkb/confluence-kb/internal/chunker"
	"github.com/confkb/confluence-kb/internal/embedding"
	"github.com/confkb/confluence-kb/internal/normalize"
	"github.com/confkb/confluence-kb/internal/source"
	"github.com/confkb/confluence-kb/internal/storage"
)

// embedBatchSize caps how many chunks go into one embedding request.
const embedBatchSize = 100

// KnowledgeBase owns the index lifecycle: it decides when a rebuild is
// needed, runs the fetch/normalize/chunk/embed pipeline, and answers
// similarity queries.
type KnowledgeBase struct {
	source   source.Source
	embedder embedding.Embedder
	store    *storage.DB
	indexDir string
	chunker  *chunker.Chunker

	// mu serializes rebuilds. Queries read committed sqlite state and
	// need no coordination with a rebuild in flight.
	mu sync.Mutex
}

// Summary reports what a reindex produced.
type Summary struct {
	Documents int
	Chunks    int
	Skipped   int
	Duration  time.Duration
}

// New creates a knowledge base over the given source and stores.
func New(src source.Source, emb embedding.Embedder, store *storage.DB, indexDir string, ch *chunker.Chunker) *KnowledgeBase {
	return &KnowledgeBase{
		source:   src,
		embedder: emb,
		store:    store,
		indexDir: indexDir,
		chunker:  ch,
	}
}

// EnsureFresh rebuilds the index if it is missing or was built from a
// different source configuration. It reports whether a rebuild ran.
// Content edits within an unchanged configuration do not trigger it;
// those need an explicit Reindex.
func (k *KnowledgeBase) EnsureFresh(ctx context.Context) (bool, error) {
	manifest, err := storage.LoadManifest(k.indexDir)
	if err != nil {
		return false, fmt.Errorf("load manifest: %w", err)
	}
	if manifest != nil && manifest.Matches(k.source.Descriptor()) {
		slog.Info("index is current",
			"total_items", manifest.TotalItems,
			"indexed_at", manifest.IndexedAt,
		)
		return false, nil
	}

	if manifest == nil {
		slog.Info("no index manifest found, building index")
	} else {
		slog.Info("source configuration changed, rebuilding index",
			"indexed", manifest.SourceDescriptor,
			"configured", k.source.Descriptor(),
		)
	}

	if _, err := k.Reindex(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Reindex fetches everything from the source and atomically replaces the
// stored index. A failure anywhere leaves the previous index and manifest
// untouched and still queryable.
func (k *KnowledgeBase) Reindex(ctx context.Context) (Summary, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	started := time.Now()

	rawDocs, err := k.source.Fetch(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch documents: %w", err)
	}
	slog.Info("fetched documents", "count", len(rawDocs))

	var (
		docs    []storage.DocumentRecord
		chunks  []storage.ChunkRecord
		skipped int
	)

	for _, doc := range rawDocs {
		text, err := normalize.Text([]byte(doc.Content), doc.Kind)
		if err != nil {
			if errors.Is(err, normalize.ErrUndecodable) {
				slog.Warn("skipping undecodable document", "doc", doc.ID)
				skipped++
				continue
			}
			return Summary{}, fmt.Errorf("normalize %s: %w", doc.ID, err)
		}

		pieces := k.chunker.Split(text)
		if len(pieces) == 0 {
			skipped++
			continue
		}

		docs = append(docs, storage.DocumentRecord{
			DocID:     doc.ID,
			Title:     doc.Title,
			Origin:    doc.Origin,
			SourceKey: doc.SourceKey,
			Locator:   doc.Locator,
		})
		for i, piece := range pieces {
			chunks = append(chunks, storage.ChunkRecord{
				ChunkID: fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				DocID:   doc.ID,
				Index:   i,
				Total:   len(pieces),
				Content: piece,
			})
		}
	}

	if err := k.embedChunks(ctx, chunks); err != nil {
		return Summary{}, err
	}

	if err := k.store.Rebuild(docs, chunks); err != nil {
		return Summary{}, fmt.Errorf("rebuild index: %w", err)
	}

	manifest := &storage.Manifest{
		TotalItems:       len(chunks),
		SourceDescriptor: k.source.Descriptor(),
		IndexedAt:        time.Now().UTC(),
	}
	if err := storage.SaveManifest(k.indexDir, manifest); err != nil {
		return Summary{}, fmt.Errorf("save manifest: %w", err)
	}

	summary := Summary{
		Documents: len(docs),
		Chunks:    len(chunks),
		Skipped:   skipped,
		Duration:  time.Since(started),
	}
	slog.Info("index rebuilt",
		"documents", summary.Documents,
		"chunks", summary.Chunks,
		"skipped", summary.Skipped,
		"duration", summary.Duration,
	)
	return summary, nil
}

// embedChunks fills in the Vector field of every chunk, batching requests.
func (k *KnowledgeBase) embedChunks(ctx context.Context, chunks []storage.ChunkRecord) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := k.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}
		slog.Debug("embedded batch", "from", start, "to", end)
	}
	return nil
}

// Query embeds the text and returns the closest chunks by cosine distance.
func (k *KnowledgeBase) Query(ctx context.Context, text string, limit int) ([]storage.SearchResult, error) {
	vector, err := k.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return k.store.SearchSimilar(vector, limit)
}

// Ask answers a question with a plain-text report of the most relevant
// documentation sections. An empty or unbuilt index produces a "nothing
// found" message, not an error.
func (k *KnowledgeBase) Ask(ctx context.Context, question string, numSources int) (string, error) {
	results, err := k.Query(ctx, question, numSources)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No relevant documentation found. The knowledge base may be empty; run a reindex and try again.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant documentation sections:\n\n", len(results))
	for i, r := range results {
		if r.Origin == source.OriginRemote {
			fmt.Fprintf(&b, "--- Source %d: %s (Space: %s) ---\n", i+1, r.Title, r.SourceKey)
			fmt.Fprintf(&b, "URL: %s\n", r.Locator)
		} else {
			fmt.Fprintf(&b, "--- Source %d: %s ---\n", i+1, r.Title)
			fmt.Fprintf(&b, "Path: %s\n", r.Locator)
		}
		fmt.Fprintf(&b, "\nContent:\n%s\n\n", r.Content)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// Status describes the current index for the status resource.
type Status struct {
	Built      bool      `json:"built"`
	TotalItems int       `json:"total_items"`
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	Descriptor []string  `json:"source_descriptor,omitempty"`
	IndexedAt  time.Time `json:"indexed_at,omitempty"`
}

// Status reports manifest and store counts for the current index.
func (k *KnowledgeBase) Status() (Status, error) {
	manifest, err := storage.LoadManifest(k.indexDir)
	if err != nil {
		return Status{}, fmt.Errorf("load manifest: %w", err)
	}

	docCount, err := k.store.CountDocuments()
	if err != nil {
		return Status{}, err
	}
	chunkCount, err := k.store.CountChunks()
	if err != nil {
		return Status{}, err
	}

	s := Status{
		Documents: docCount,
		Chunks:    chunkCount,
	}
	if manifest != nil {
		s.Built = true
		s.TotalItems = manifest.TotalItems
		s.Descriptor = manifest.SourceDescriptor
		s.IndexedAt = manifest.IndexedAt
	}
	return s, nil
}
