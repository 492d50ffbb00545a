package llm

import (
	"fmt"
	"os"

	"github.com/govflowai/govchat/internal/config"
)

// NewProvider creates a completion provider from the given configuration.
// If cfg.MaxRPM is positive, the provider is wrapped with a rate limiter.
func NewProvider(cfg *config.Config) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		provider = NewOpenAIProvider(apiKey, cfg.Model)

	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		provider = NewOllamaProvider(host, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	if cfg.MaxRPM > 0 {
		provider = NewRateLimitedProvider(provider, cfg.MaxRPM)
	}
	return provider, nil
}
