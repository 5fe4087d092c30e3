// Package chunker splits normalized text into overlapping fixed-size windows.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Chunker splits text into overlapping windows, snapping window ends to
// sentence or line boundaries when a good one exists near the end.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive windows in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a Chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below the window size.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks text into overlapping windows. Identical input always yields
// identical boundaries. Empty input yields no chunks.
//
// Sizes and offsets are in runes, never bytes, so multi-byte text is never
// cut mid-character. Each window tentatively covers chunkSize runes. For
// every window but the last, the end snaps back to the later of the last
// '.' and the last '\n' inside the window, but only when that break point
// lies past the window midpoint; a break earlier than that would leave a
// degenerate tiny chunk, so the full window is kept instead. Chunks are
// trimmed and empty ones dropped. The cursor then advances to end-overlap,
// with a floor step of one rune so the loop always terminates.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)

	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := runes[start:end]

		// Snap to a sentence or line boundary, except on the final chunk.
		if end < len(runes) {
			breakPoint := lastIndexRune(window, '.')
			if nl := lastIndexRune(window, '\n'); nl > breakPoint {
				breakPoint = nl
			}
			if breakPoint > c.chunkSize/2 {
				window = window[:breakPoint+1]
				end = start + breakPoint + 1
			}
		}

		if trimmed := strings.TrimSpace(string(window)); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// lastIndexRune returns the index of the last occurrence of r, or -1.
func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
