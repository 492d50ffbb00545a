// Package chunker splits corpus documents into bounded, overlapping chunks.
package chunker

import "strings"

// separators are tried in priority order when choosing a cut point:
// markdown heading boundaries first, then paragraph and line breaks,
// then word boundaries. If none occurs in the window, the text is cut
// at the size limit.
var separators = []string{"\n## ", "\n### ", "\n#### ", "\n\n", "\n", " "}

const (
	// DefaultMaxSize is the default maximum chunk length in characters.
	DefaultMaxSize = 1000
	// DefaultOverlap is the default number of characters shared between
	// adjacent chunks.
	DefaultOverlap = 200
)

// Chunker splits text into chunks of at most MaxSize characters, with
// adjacent chunks sharing Overlap characters of context. Splitting is
// deterministic: the same input always yields the same chunk sequence.
type Chunker struct {
	maxSize int
	overlap int
}

// New creates a Chunker. Non-positive maxSize or negative overlap fall
// back to the defaults; overlap is clamped below maxSize.
func New(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}
}

// Split breaks text into chunks of at most maxSize characters. A text
// that already fits yields exactly one chunk equal to the input.
func (c *Chunker) Split(text string) []string {
	if len(text) <= c.maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		remaining := len(text) - start
		if remaining <= c.maxSize {
			if tail := strings.TrimSpace(text[start:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		window := text[start : start+c.maxSize]
		cut := cutPoint(window)

		if chunk := strings.TrimSpace(window[:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Step back by the overlap so boundary context is shared, but
		// always make forward progress.
		advance := cut - c.overlap
		if advance <= 0 {
			advance = cut
		}
		start += advance
	}

	return chunks
}

// cutPoint returns the index to cut the window at, preferring the last
// occurrence of the highest-priority separator. Cutting before a heading
// separator keeps the heading attached to the following chunk.
func cutPoint(window string) int {
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx
		}
	}
	return len(window)
}
