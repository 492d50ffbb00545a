package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/govflowai/govchat/internal/chat"
	"github.com/govflowai/govchat/internal/chunker"
	"github.com/govflowai/govchat/internal/composer"
	"github.com/govflowai/govchat/internal/config"
	"github.com/govflowai/govchat/internal/embeddings"
	"github.com/govflowai/govchat/internal/forms"
	"github.com/govflowai/govchat/internal/intent"
	"github.com/govflowai/govchat/internal/llm"
	"github.com/govflowai/govchat/internal/retriever"
	"github.com/govflowai/govchat/internal/slots"
	"github.com/govflowai/govchat/internal/vectordb"
)

// loadConfig reads and validates the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildRetriever assembles the retriever from config. For the chromem
// backend, a previously persisted index is loaded when present.
func buildRetriever(cfg *config.Config) (*retriever.Retriever, error) {
	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	loader := retriever.NewLoader(cfg.KnowledgeDir, cfg.Include, cfg.Exclude)
	newStore := func() (vectordb.Store, error) {
		if cfg.VectorStore == config.StoreChromem {
			return vectordb.NewChromemStore(embedder)
		}
		return vectordb.NewMemoryStore(embedder), nil
	}

	ret := retriever.New(loader, chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), newStore, cfg.TopK)

	if cfg.VectorStore == config.StoreChromem {
		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return nil, fmt.Errorf("creating vector store: %w", err)
		}
		if err := store.Load(cfg.DataDir); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "no persisted index loaded from %s: %v\n", cfg.DataDir, err)
			}
		} else {
			ret.Seed(store)
		}
	}

	return ret, nil
}

// persistIndex saves the current index for backends that support it.
func persistIndex(cfg *config.Config, ret *retriever.Retriever) error {
	store, ok := ret.Store().(*vectordb.ChromemStore)
	if !ok {
		return nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return store.Persist(cfg.DataDir)
}

// buildPipeline wires the full chat pipeline from config.
func buildPipeline(cfg *config.Config, ret *retriever.Retriever) (*chat.Pipeline, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	comp := composer.New(provider, cfg.Model, cfg.HistoryWindow,
		time.Duration(cfg.CompletionTimeoutSeconds)*time.Second)

	return chat.NewPipeline(
		intent.NewClassifier(),
		slots.NewExtractor(cfg.AddressFallback),
		forms.NewRegistry(),
		ret,
		comp,
		cfg.TopK,
		cfg.Location,
	), nil
}
