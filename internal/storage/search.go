package storage

import (
	"fmt"
	"sort"
)

// SearchResult is one retrieved chunk with its cosine distance to the query.
type SearchResult struct {
	ChunkID    string  `json:"chunk_id"`
	DocID      string  `json:"doc_id"`
	Title      string  `json:"title"`
	Origin     string  `json:"origin"`
	SourceKey  string  `json:"source_key"`
	Locator    string  `json:"locator"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
}

// SearchSimilar returns up to limit chunks ordered by ascending cosine
// distance to the query vector. An empty index yields an empty result,
// not an error.
//
// Similarity is computed in memory over all stored vectors. At the scale of
// a team documentation space that is fast enough; a dedicated vector index
// would only pay off orders of magnitude beyond it.
func (db *DB) SearchSimilar(queryVector []float32, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := db.conn.Query(`
		SELECT
			c.chunk_id,
			c.chunk_index,
			c.content,
			c.vector,
			d.doc_id,
			d.title,
			d.origin,
			d.source_key,
			d.locator
		FROM chunks c
		JOIN documents d ON c.document_id = d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r           SearchResult
			vectorBytes []byte
		)
		if err := rows.Scan(
			&r.ChunkID,
			&r.ChunkIndex,
			&r.Content,
			&vectorBytes,
			&r.DocID,
			&r.Title,
			&r.Origin,
			&r.SourceKey,
			&r.Locator,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		r.Distance = cosineDistance(queryVector, deserializeVector(vectorBytes))
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
