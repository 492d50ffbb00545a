package vectordb

import "context"

// Store defines the interface for embedding chunks and searching them by
// similarity. Implementations embed on Add and again on Search with the
// same embedder, so scores are comparable.
//
// Rebuilds follow a clear-then-add contract: calling Add after a prior
// build without Clear appends, so callers replacing a corpus must Clear
// first (the retriever builds into a fresh store and swaps it in).
type Store interface {
	// Add embeds the given chunks and stores vector + chunk pairs.
	Add(ctx context.Context, chunks []Chunk) error

	// Search embeds the query and returns up to topK chunks by descending
	// similarity. Searching an empty store returns an empty result.
	Search(ctx context.Context, query string, topK int) ([]Result, error)

	// Clear removes all stored chunks and vectors.
	Clear() error

	// Count returns the number of stored chunks.
	Count() int
}
