// Package normalize converts raw document content into plain text suitable
// for chunking.
package normalize

import (
	"bytes"
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects the normalization path for a document.
type Kind int

const (
	// Plain is already-plain text that only needs a decode check.
	Plain Kind = iota
	// Markup is HTML/XHTML (Confluence storage format) to be stripped.
	Markup
)

// ErrUndecodable reports content that could not be decoded as text.
// Callers skip the document and log; one bad document never aborts a batch.
var ErrUndecodable = errors.New("normalize: content is not decodable text")

// Pre-compiled expressions for markup stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|ul|ol|tr|td|th|table|blockquote|pre|section|article)[^>]*>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
)

// Text normalizes raw content to plain text.
//
// Markup input has script and style elements removed entirely, block
// boundaries turned into newlines, all remaining tags stripped, and
// whitespace collapsed; lines that trim to nothing are dropped. Non-text
// nodes (macros, media placeholders) lose their tags and keep any visible
// text. Plain input passes through after a decode check: invalid UTF-8
// falls back to Latin-1, and content with NUL bytes is rejected as binary
// with ErrUndecodable and an empty result.
func Text(raw []byte, kind Kind) (string, error) {
	s, err := decode(raw)
	if err != nil {
		return "", err
	}

	if kind == Markup {
		return stripMarkup(s), nil
	}
	return s, nil
}

// decode returns raw as a string, trying UTF-8 first and Latin-1 second.
func decode(raw []byte) (string, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", ErrUndecodable
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Latin-1: every byte maps to the code point of the same value.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

// stripMarkup converts markup to visible plain text with one line per block.
func stripMarkup(s string) string {
	s = scriptTag.ReplaceAllString(s, "")
	s = styleTag.ReplaceAllString(s, "")
	s = htmlComments.ReplaceAllString(s, "")
	s = brTags.ReplaceAllString(s, "\n")
	s = blockElements.ReplaceAllString(s, "\n")
	s = allTags.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spaceRuns.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
