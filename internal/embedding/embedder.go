// Package embedding turns text into fixed-length dense vectors.
package embedding

import "context"

// Embedder maps arbitrary text to fixed-length dense vectors. The same
// implementation (and model version) must be used for indexing and querying;
// a mismatch is not detectable and silently degrades retrieval quality.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Model identifies the embedding model in use.
	Model() string
}
