package retriever

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/govflowai/govchat/internal/chunker"
	"github.com/govflowai/govchat/internal/vectordb"
)

type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for j, ch := range text {
			vec[(int(ch)+j)%m.dims] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		results[i] = vec
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestRetriever(dir string) *Retriever {
	loader := NewLoader(dir, []string{"**/*.md"}, nil)
	newStore := func() (vectordb.Store, error) {
		return vectordb.NewMemoryStore(&mockEmbedder{dims: 64}), nil
	}
	return New(loader, chunker.New(200, 40), newStore, 3)
}

func TestLoaderIncludeExclude(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"vehicle_registration.md": "# Registration\n\nUse form REG 343.",
		"notes.txt":               "not markdown",
		"drafts/internal.md":      "draft content",
	})

	loader := NewLoader(dir, []string{"**/*.md"}, []string{"drafts/**"})
	docs, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}
	if docs[0].Category != "vehicle_registration" {
		t.Errorf("category: got %q", docs[0].Category)
	}
	if !strings.Contains(docs[0].Text, "REG 343") {
		t.Errorf("text missing content: %q", docs[0].Text)
	}
}

func TestLoaderStripsMarkdownSyntax(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"doc.md": "# Heading\n\nSome **bold** and [a link](https://example.com).\n\n- item one\n- item two\n",
	})

	loader := NewLoader(dir, nil, nil)
	docs, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}

	text := docs[0].Text
	for _, banned := range []string{"**", "](", "<p>", "<li>"} {
		if strings.Contains(text, banned) {
			t.Errorf("text still contains %q: %q", banned, text)
		}
	}
	for _, want := range []string{"Heading", "bold", "a link", "item one", "item two"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
}

func TestLoaderMissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope"), nil, nil)
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestBuildIndexAndRetrieve(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"vehicle_registration.md": "# Vehicle Registration\n\nTo register a vehicle you need form REG 343, proof of insurance, and a smog certificate.",
		"drivers_license.md":      "# Driver License\n\nLicense renewals can be done online. A replacement license requires form DL 44.",
	})

	r := newTestRetriever(dir)
	n, err := r.BuildIndex(context.Background())
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if n < 2 {
		t.Fatalf("indexed %d chunks, want at least 2", n)
	}
	if r.ChunkCount() != n {
		t.Errorf("ChunkCount: got %d, want %d", r.ChunkCount(), n)
	}

	results, err := r.Retrieve(context.Background(), "To register a vehicle you need form REG 343, proof of insurance, and a smog certificate.", 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Chunk.Category != "vehicle_registration" {
		t.Errorf("category: got %q, want vehicle_registration", results[0].Chunk.Category)
	}
}

func TestRetrieveBuildsLazily(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"real_id.md": "# REAL ID\n\nA REAL ID requires proof of identity and two proofs of residency.",
	})

	r := newTestRetriever(dir)
	results, err := r.Retrieve(context.Background(), "REAL ID proof of residency", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results after lazy build")
	}
}

func TestConcurrentRetrievesBuildOnce(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"real_id.md": "# REAL ID\n\nA REAL ID requires proof of identity and two proofs of residency.",
	})

	var builds atomic.Int32
	loader := NewLoader(dir, []string{"**/*.md"}, nil)
	newStore := func() (vectordb.Store, error) {
		builds.Add(1)
		return vectordb.NewMemoryStore(&mockEmbedder{dims: 64}), nil
	}
	r := New(loader, chunker.New(200, 40), newStore, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := r.Retrieve(context.Background(), "REAL ID proof of residency", 1)
			if err != nil {
				t.Errorf("Retrieve: %v", err)
				return
			}
			if len(results) == 0 {
				t.Error("expected results after lazy build")
			}
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("store built %d times, want 1", got)
	}
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	r := newTestRetriever(t.TempDir())
	results, err := r.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestRebuildReplacesIndex(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.md": "First document about vehicle titles.",
	})

	r := newTestRetriever(dir)
	if _, err := r.BuildIndex(context.Background()); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	first := r.ChunkCount()

	if err := os.WriteFile(filepath.Join(dir, "b.md"), []byte("Second document about smog checks."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := r.BuildIndex(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if r.ChunkCount() != first+1 {
		t.Errorf("ChunkCount after rebuild: got %d, want %d", r.ChunkCount(), first+1)
	}
}

func TestFormatContext(t *testing.T) {
	results := []vectordb.Result{
		{Chunk: vectordb.Chunk{Text: "Use form REG 343.", Category: "vehicle_registration", Source: "vehicle_registration.md"}},
		{Chunk: vectordb.Chunk{Text: "Renew online.", Category: "drivers_license", Source: "drivers_license.md"}},
	}

	got := FormatContext(results)
	want := "[CONTEXT 1] From vehicle_registration:\nUse form REG 343.\n\n[CONTEXT 2] From drivers_license:\nRenew online."
	if got != want {
		t.Errorf("FormatContext:\ngot  %q\nwant %q", got, want)
	}

	if FormatContext(nil) != "" {
		t.Error("empty results should format to empty string")
	}
}

func TestSourcesDedup(t *testing.T) {
	results := []vectordb.Result{
		{Chunk: vectordb.Chunk{Source: "a.md", Category: "a", Seq: 0}},
		{Chunk: vectordb.Chunk{Source: "b.md", Category: "b", Seq: 0}},
		{Chunk: vectordb.Chunk{Source: "a.md", Category: "a", Seq: 1}},
	}

	refs := Sources(results)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Source != "a.md" || refs[1].Source != "b.md" {
		t.Errorf("refs order wrong: %+v", refs)
	}
}
