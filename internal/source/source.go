// Package source defines the content source contract and its two
// implementations: Confluence spaces and a local documentation directory.
package source

import (
	"context"

	"github.com/confkb/confluence-kb/internal/normalize"
)

// Origins for fetched documents.
const (
	OriginRemote = "remote"
	OriginLocal  = "local"
)

// Document is a raw document as fetched from a source. It is immutable and
// discarded after chunking; only derived chunks are persisted.
type Document struct {
	ID        string // Unique per source (page ID or relative file path)
	Title     string
	Content   string // Raw, not yet normalized
	Origin    string // OriginRemote or OriginLocal
	Kind      normalize.Kind
	SourceKey string // Space key or root directory
	Locator   string // Stable locator: web UI URL or filesystem path
	Meta      map[string]string
}

// Source yields raw documents for indexing. Implementations isolate
// per-unit failures: one bad page or file is logged and skipped, it never
// aborts the whole fetch.
type Source interface {
	// Fetch returns all documents from the configured selectors.
	Fetch(ctx context.Context) ([]Document, error)
	// Descriptor identifies what Fetch covers (space keys or directory
	// path); compared as a set against the index manifest for staleness.
	Descriptor() []string
}
