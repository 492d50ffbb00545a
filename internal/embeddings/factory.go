package embeddings

import (
	"fmt"
	"os"

	"github.com/govflowai/govchat/internal/config"
)

// NewEmbedder creates an embedder from the given configuration.
func NewEmbedder(cfg *config.Config) (Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(cfg.EmbeddingModel)), nil

	case config.ProviderOllama:
		dims := cfg.EmbeddingDims
		if dims <= 0 {
			return nil, fmt.Errorf("embedding_dims is required for ollama embedding models")
		}
		return NewOllamaEmbedder(cfg.EmbeddingModel, dims, os.Getenv("OLLAMA_HOST")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
