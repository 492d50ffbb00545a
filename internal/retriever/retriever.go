// Package retriever turns a directory of markdown documents into a
// searchable vector index and formats search hits into prompt context.
package retriever

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/govflowai/govchat/internal/chunker"
	"github.com/govflowai/govchat/internal/vectordb"
)

// SourceRef identifies one knowledge document that contributed retrieved
// context, deduplicated across chunks.
type SourceRef struct {
	Source   string `json:"source"`
	Category string `json:"category"`
}

// Retriever owns the vector index over the knowledge corpus. Rebuilds go
// into a fresh store that is swapped in atomically, so concurrent reads
// never observe a half-built index.
type Retriever struct {
	loader   *Loader
	chunker  *chunker.Chunker
	newStore func() (vectordb.Store, error)
	topK     int

	// onProgress, when set, is called after each document is indexed.
	onProgress func(doc string, done, total int)

	// buildMu serializes lazy builds so concurrent first retrieves embed
	// the corpus once instead of once per caller.
	buildMu sync.Mutex

	mu    sync.RWMutex
	store vectordb.Store
	built bool
}

// SetProgress installs a per-document progress callback for index builds.
func (r *Retriever) SetProgress(fn func(doc string, done, total int)) {
	r.onProgress = fn
}

// Seed installs a pre-built store (for example one loaded from disk) so
// the first Retrieve does not trigger a rebuild.
func (r *Retriever) Seed(store vectordb.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
	r.built = store.Count() > 0
}

// Store returns the current store, nil before any build or seed.
func (r *Retriever) Store() vectordb.Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store
}

// New creates a Retriever. newStore is called once per index build so that
// each rebuild starts from an empty store.
func New(loader *Loader, ch *chunker.Chunker, newStore func() (vectordb.Store, error), topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		loader:   loader,
		chunker:  ch,
		newStore: newStore,
		topK:     topK,
	}
}

// BuildIndex loads the corpus, chunks and embeds it into a fresh store,
// and swaps the store in. It returns the number of chunks indexed. An
// empty corpus builds an empty index without error.
func (r *Retriever) BuildIndex(ctx context.Context) (int, error) {
	docs, err := r.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("loading corpus: %w", err)
	}

	fresh, err := r.newStore()
	if err != nil {
		return 0, fmt.Errorf("creating store: %w", err)
	}

	total := 0
	for i, doc := range docs {
		pieces := r.chunker.Split(doc.Text)
		chunks := make([]vectordb.Chunk, len(pieces))
		for i, p := range pieces {
			chunks[i] = vectordb.Chunk{
				Text:     p,
				Source:   doc.Path,
				Category: doc.Category,
				Seq:      i,
			}
		}
		if err := fresh.Add(ctx, chunks); err != nil {
			return 0, fmt.Errorf("indexing %s: %w", doc.Path, err)
		}
		total += len(chunks)
		if r.onProgress != nil {
			r.onProgress(doc.Path, i+1, len(docs))
		}
	}

	r.mu.Lock()
	r.store = fresh
	r.built = true
	r.mu.Unlock()

	log.Printf("Indexed %d chunks from %d documents", total, len(docs))
	return total, nil
}

// Retrieve returns the topK most similar chunks for the query, building
// the index first if it has never been built. topK <= 0 uses the
// configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]vectordb.Result, error) {
	if topK <= 0 {
		topK = r.topK
	}

	r.mu.RLock()
	built := r.built
	store := r.store
	r.mu.RUnlock()

	if !built {
		if err := r.lazyBuild(ctx); err != nil {
			return nil, err
		}
		r.mu.RLock()
		store = r.store
		r.mu.RUnlock()
	}

	if store.Count() == 0 {
		return nil, nil
	}
	return store.Search(ctx, query, topK)
}

// lazyBuild builds the index unless another caller finished a build
// while this one waited on the lock.
func (r *Retriever) lazyBuild(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	r.mu.RLock()
	built := r.built
	r.mu.RUnlock()
	if built {
		return nil
	}

	_, err := r.BuildIndex(ctx)
	return err
}

// ChunkCount returns the size of the current index, 0 before any build.
func (r *Retriever) ChunkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.store == nil {
		return 0
	}
	return r.store.Count()
}

// FormatContext renders results as numbered context blocks for the
// system prompt. An empty result set renders to an empty string.
func FormatContext(results []vectordb.Result) string {
	if len(results) == 0 {
		return ""
	}
	blocks := make([]string, len(results))
	for i, res := range results {
		blocks[i] = fmt.Sprintf("[CONTEXT %d] From %s:\n%s", i+1, res.Chunk.Category, res.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// Sources returns the distinct documents behind the results, in first
// appearance order.
func Sources(results []vectordb.Result) []SourceRef {
	seen := make(map[string]bool, len(results))
	var refs []SourceRef
	for _, res := range results {
		if seen[res.Chunk.Source] {
			continue
		}
		seen[res.Chunk.Source] = true
		refs = append(refs, SourceRef{Source: res.Chunk.Source, Category: res.Chunk.Category})
	}
	return refs
}
