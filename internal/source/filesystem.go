package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/confkb/confluence-kb/internal/normalize"
)

// DirSource walks a local documentation directory.
type DirSource struct {
	root string
}

// NewDir creates a source over the given directory. The path is made
// absolute so the manifest descriptor stays stable regardless of the
// working directory. A missing or non-directory root is a configuration
// error, not an empty source; only entries below the root get the
// skip-and-log treatment.
func NewDir(root string) (*DirSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs directory %s is not a directory", abs)
	}
	return &DirSource{root: abs}, nil
}

// Descriptor returns the absolute root path.
func (s *DirSource) Descriptor() []string {
	return []string{s.root}
}

// kindForExt maps supported file extensions to their normalization kind.
// Unknown extensions are skipped during the walk.
func kindForExt(ext string) (normalize.Kind, bool) {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return normalize.Markup, true
	case ".txt", ".md", ".markdown":
		return normalize.Plain, true
	default:
		return 0, false
	}
}

// Fetch walks the directory and returns every supported file as a document.
// Unreadable files are logged and skipped; they never abort the walk.
func (s *DirSource) Fetch(ctx context.Context) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		kind, ok := kindForExt(filepath.Ext(path))
		if !ok {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}

		name := filepath.Base(path)
		title := strings.TrimSuffix(name, filepath.Ext(name))

		docs = append(docs, Document{
			ID:        rel,
			Title:     title,
			Content:   string(data),
			Origin:    OriginLocal,
			Kind:      kind,
			SourceKey: s.root,
			Locator:   path,
			Meta:      map[string]string{},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}
