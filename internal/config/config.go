// Package config loads and validates the environment-style configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults for chunking, matching the sizes the index was designed around.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// DefaultEmbeddingModel is used for both indexing and querying. The two
// must never diverge: a mismatch silently degrades retrieval quality.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Config holds everything the knowledge base needs to run.
// Exactly one content source is configured: Confluence (URL, email, token,
// spaces) or a local documentation directory.
type Config struct {
	// Confluence connection (remote source).
	ConfluenceURL   string
	ConfluenceEmail string
	ConfluenceToken string
	Spaces          []string

	// Local directory source.
	DocsDir string

	// Index storage root: the sqlite index and manifest.json live here.
	IndexDir string

	// Chunking parameters. Overlap must be smaller than ChunkSize.
	ChunkSize    int
	ChunkOverlap int

	// Embedding API.
	EmbeddingAPIKey  string
	EmbeddingBaseURL string // Optional OpenAI-compatible endpoint override.
	EmbeddingModel   string
}

// Load reads configuration from the environment and validates it.
// Validation failures are fatal at startup: the process must not serve
// queries with a broken source or chunking configuration.
func Load() (*Config, error) {
	cfg := &Config{
		ConfluenceURL:    strings.TrimRight(os.Getenv("CONFLUENCE_URL"), "/"),
		ConfluenceEmail:  os.Getenv("CONFLUENCE_EMAIL"),
		ConfluenceToken:  os.Getenv("CONFLUENCE_API_TOKEN"),
		Spaces:           splitList(os.Getenv("CONFLUENCE_SPACES")),
		DocsDir:          os.Getenv("KB_DOCS_DIR"),
		IndexDir:         os.Getenv("KB_INDEX_DIR"),
		ChunkSize:        getenvInt("KB_CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:     getenvInt("KB_CHUNK_OVERLAP", DefaultChunkOverlap),
		EmbeddingAPIKey:  os.Getenv("OPENAI_API_KEY"),
		EmbeddingBaseURL: os.Getenv("KB_EMBEDDING_BASE_URL"),
		EmbeddingModel:   os.Getenv("KB_EMBEDDING_MODEL"),
	}

	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}

	if cfg.IndexDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory for index path: %w", err)
		}
		cfg.IndexDir = filepath.Join(home, ".confluence-kb", "index")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks source exclusivity and chunking invariants.
func (c *Config) Validate() error {
	remote := c.ConfluenceURL != "" || c.ConfluenceEmail != "" || c.ConfluenceToken != "" || len(c.Spaces) > 0
	local := c.DocsDir != ""

	switch {
	case remote && local:
		return fmt.Errorf("configure either Confluence (CONFLUENCE_URL) or a local directory (KB_DOCS_DIR), not both")
	case !remote && !local:
		return fmt.Errorf("missing content source: set CONFLUENCE_URL, CONFLUENCE_EMAIL, CONFLUENCE_API_TOKEN and CONFLUENCE_SPACES, or KB_DOCS_DIR")
	case remote:
		if c.ConfluenceURL == "" || c.ConfluenceEmail == "" || c.ConfluenceToken == "" {
			return fmt.Errorf("missing required environment variables: CONFLUENCE_URL, CONFLUENCE_EMAIL, CONFLUENCE_API_TOKEN")
		}
		if len(c.Spaces) == 0 {
			return fmt.Errorf("missing CONFLUENCE_SPACES: set it to comma-separated space keys (e.g., \"TEAM,DOCS,ENG\")")
		}
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must satisfy 0 <= overlap < chunk size, got overlap=%d size=%d", c.ChunkOverlap, c.ChunkSize)
	}

	return nil
}

// Remote reports whether the configured source is Confluence.
func (c *Config) Remote() bool {
	return c.DocsDir == ""
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
