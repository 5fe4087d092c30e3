package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestFileName is the manifest file under the index root.
const ManifestFileName = "manifest.json"

// Manifest records what was last indexed. It is the single source of truth
// for staleness decisions: when its descriptor no longer matches the
// configured source, the index must be rebuilt.
type Manifest struct {
	TotalItems       int       `json:"total_items"`
	SourceDescriptor []string  `json:"source_descriptor"`
	IndexedAt        time.Time `json:"indexed_at"`
}

// Matches compares the manifest descriptor with the given one as sets:
// order and duplicates are irrelevant.
func (m *Manifest) Matches(descriptor []string) bool {
	have := make(map[string]struct{}, len(m.SourceDescriptor))
	for _, d := range m.SourceDescriptor {
		have[d] = struct{}{}
	}
	want := make(map[string]struct{}, len(descriptor))
	for _, d := range descriptor {
		want[d] = struct{}{}
	}
	if len(have) != len(want) {
		return false
	}
	for d := range want {
		if _, ok := have[d]; !ok {
			return false
		}
	}
	return true
}

// LoadManifest reads the manifest under indexDir. A missing manifest is not
// an error: it returns (nil, nil) and means the index was never built.
func LoadManifest(indexDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(indexDir, ManifestFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// SaveManifest writes the manifest under indexDir. The write goes to a
// temporary file first and is renamed into place, so readers never observe
// a torn manifest.
func SaveManifest(indexDir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(indexDir, ManifestFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}
