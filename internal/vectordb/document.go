package vectordb

// Chunk is a bounded span of source-document text, the unit of retrieval.
// Chunks are produced once at index-build time and never mutated.
type Chunk struct {
	Text     string
	Source   string // source document filename, e.g. "vehicle_registration.md"
	Category string // filename stem, one logical category per document
	Seq      int    // position of this chunk within its source document
}

// Result pairs a chunk with its similarity score.
type Result struct {
	Chunk Chunk
	Score float32
}
