package storage

import (
	"fmt"
	"testing"
)

// setupTestDB creates a temporary index database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// testDoc builds a document record with derived fields.
func testDoc(id string) DocumentRecord {
	return DocumentRecord{
		DocID:     id,
		Title:     "Title " + id,
		Origin:    "remote",
		SourceKey: "ENG",
		Locator:   "https://example.atlassian.net/wiki/pages/" + id,
	}
}

// testChunks builds n chunks for a document with simple unit-ish vectors.
func testChunks(docID string, n int, vec func(i int) []float32) []ChunkRecord {
	chunks := make([]ChunkRecord, n)
	for i := 0; i < n; i++ {
		chunks[i] = ChunkRecord{
			ChunkID: fmt.Sprintf("%s_chunk_%d", docID, i),
			DocID:   docID,
			Index:   i,
			Total:   n,
			Content: fmt.Sprintf("chunk %d of %s", i, docID),
			Vector:  vec(i),
		}
	}
	return chunks
}
