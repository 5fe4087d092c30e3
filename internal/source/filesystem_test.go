package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/confkb/confluence-kb/internal/normalize"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDirSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "# Guide\n\nSome content.")
	writeFile(t, dir, "notes.txt", "plain notes")
	writeFile(t, dir, "page.html", "<p>hello</p>")
	writeFile(t, dir, "image.png", "\x89PNG")
	writeFile(t, dir, "nested/deep.md", "nested doc")

	src, err := NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	docs, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("docs = %d, want 4 (png skipped)", len(docs))
	}

	byID := make(map[string]Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	md, ok := byID["guide.md"]
	if !ok {
		t.Fatal("guide.md not fetched")
	}
	if md.Title != "guide" {
		t.Errorf("title = %v, want guide", md.Title)
	}
	if md.Kind != normalize.Plain {
		t.Errorf("kind = %v, want Plain", md.Kind)
	}
	if md.Origin != OriginLocal {
		t.Errorf("origin = %v, want local", md.Origin)
	}
	if md.Locator != filepath.Join(dir, "guide.md") {
		t.Errorf("locator = %v", md.Locator)
	}

	html, ok := byID["page.html"]
	if !ok {
		t.Fatal("page.html not fetched")
	}
	if html.Kind != normalize.Markup {
		t.Errorf("html kind = %v, want Markup", html.Kind)
	}

	if _, ok := byID[filepath.Join("nested", "deep.md")]; !ok {
		t.Error("nested file not fetched")
	}
}

func TestDirSource_Descriptor(t *testing.T) {
	dir := t.TempDir()
	src, err := NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	desc := src.Descriptor()
	if len(desc) != 1 {
		t.Fatalf("descriptor = %v, want one path", desc)
	}
	if !filepath.IsAbs(desc[0]) {
		t.Errorf("descriptor path not absolute: %v", desc[0])
	}
}

func TestNewDir_MissingRoot(t *testing.T) {
	_, err := NewDir(filepath.Join(t.TempDir(), "no-such-dir"))
	if err == nil {
		t.Fatal("expected an error for a nonexistent docs directory")
	}
	if !os.IsNotExist(errors.Unwrap(err)) {
		t.Errorf("error = %v, want a not-exist cause", err)
	}
}

func TestNewDir_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "plain notes")

	_, err := NewDir(filepath.Join(dir, "notes.txt"))
	if err == nil {
		t.Fatal("expected an error for a file root")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("error = %v, want not-a-directory", err)
	}
}

func TestDirSource_EmptyDir(t *testing.T) {
	src, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	docs, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0", len(docs))
	}
}
