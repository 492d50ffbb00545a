package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/govflowai/govchat/internal/embeddings"
)

// MemoryStore is an in-memory vector store using brute-force cosine
// similarity over L2-normalized vectors. Ties are broken by insertion
// order (first added wins), which keeps search results deterministic.
type MemoryStore struct {
	embedder embeddings.Embedder

	mu      sync.RWMutex
	vectors [][]float32
	chunks  []Chunk
}

// NewMemoryStore creates an empty in-memory store using the given embedder.
func NewMemoryStore(embedder embeddings.Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

func (s *MemoryStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors, expected %d", len(vectors), len(chunks))
	}
	for i := range vectors {
		normalize(vectors[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	count := len(s.chunks)
	s.mu.RUnlock()
	if count == 0 {
		return nil, nil
	}

	qvecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(qvecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	qvec := qvecs[0]
	normalize(qvec)

	s.mu.RLock()
	defer s.mu.RUnlock()

	idxs := make([]int, len(s.vectors))
	scores := make([]float32, len(s.vectors))
	for i, v := range s.vectors {
		idxs[i] = i
		scores[i] = dot(v, qvec)
	}

	// Stable sort over insertion order: equal scores keep the earlier
	// inserted chunk first.
	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})

	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]Result, 0, topK)
	for _, i := range idxs[:topK] {
		results = append(results, Result{Chunk: s.chunks[i], Score: scores[i]})
	}
	return results, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
