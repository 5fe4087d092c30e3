// Package storage persists the embedding index: chunk vectors in a local
// sqlite database plus a manifest.json describing what was indexed.
package storage

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the sqlite file under the index root.
const DBFileName = "index.db"

// initialSchema contains the SQL for creating tables
const initialSchema = `-- Documents table stores per-document source metadata
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    doc_id TEXT UNIQUE NOT NULL,
    title TEXT,
    origin TEXT NOT NULL,
    source_key TEXT,
    locator TEXT
);

-- Chunks table stores chunk text and embedding vectors
CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chunk_id TEXT UNIQUE NOT NULL,
    document_id INTEGER NOT NULL,
    chunk_index INTEGER NOT NULL,
    total_chunks INTEGER NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL,
    FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
);

-- Indexes for faster lookups
CREATE INDEX IF NOT EXISTS idx_doc_id ON documents(doc_id);
CREATE INDEX IF NOT EXISTS idx_chunk_document_id ON chunks(document_id);
`

// DocumentRecord is the per-document metadata kept for query reports.
type DocumentRecord struct {
	DocID     string // Unique per source (page ID or file path)
	Title     string
	Origin    string // "remote" or "local"
	SourceKey string // Space key or root directory
	Locator   string // Web UI URL or filesystem path
}

// ChunkRecord is one embedded chunk ready for storage.
type ChunkRecord struct {
	ChunkID string // "<doc_id>_chunk_<index>", unique within a generation
	DocID   string
	Index   int
	Total   int
	Content string
	Vector  []float32
}

// DB wraps the sqlite database holding the vector index.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the index database under indexDir.
func NewDB(indexDir string) (*DB, error) {
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(indexDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.runMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func (db *DB) runMigrations() error {
	if _, err := db.conn.Exec(initialSchema); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Rebuild atomically replaces the stored collection with the given documents
// and chunks. Everything happens in one transaction: a reader either sees the
// complete previous generation or the complete new one, and a crash mid-build
// leaves the previous index intact.
func (db *DB) Rebuild(docs []DocumentRecord, chunks []ChunkRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}

	if err := rebuildInTx(tx, docs, chunks); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%v (rollback error: %w)", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}
	return nil
}

func rebuildInTx(tx *sql.Tx, docs []DocumentRecord, chunks []ChunkRecord) error {
	if _, err := tx.Exec(`DELETE FROM chunks`); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	insertDoc, err := tx.Prepare(`
		INSERT INTO documents (doc_id, title, origin, source_key, locator)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer insertDoc.Close()

	rowIDs := make(map[string]int64, len(docs))
	for _, doc := range docs {
		res, err := insertDoc.Exec(doc.DocID, doc.Title, doc.Origin, doc.SourceKey, doc.Locator)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.DocID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get document row id: %w", err)
		}
		rowIDs[doc.DocID] = id
	}

	insertChunk, err := tx.Prepare(`
		INSERT INTO chunks (chunk_id, document_id, chunk_index, total_chunks, content, vector)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer insertChunk.Close()

	for _, chunk := range chunks {
		docRowID, ok := rowIDs[chunk.DocID]
		if !ok {
			return fmt.Errorf("chunk %s references unknown document %s", chunk.ChunkID, chunk.DocID)
		}
		if _, err := insertChunk.Exec(
			chunk.ChunkID,
			docRowID,
			chunk.Index,
			chunk.Total,
			chunk.Content,
			serializeVector(chunk.Vector),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ChunkID, err)
		}
	}

	return nil
}

// CountChunks returns the number of stored chunks.
func (db *DB) CountChunks() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// CountDocuments returns the number of stored documents.
func (db *DB) CountDocuments() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// serializeVector converts a float32 slice to bytes for storage
func serializeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// deserializeVector converts bytes back to a float32 slice
func deserializeVector(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineDistance computes 1 - cosine similarity; smaller means more similar.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
