package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard interactively builds a configuration and writes it to path.
func RunWizard(path string) (*Config, error) {
	cfg := DefaultConfig()

	// 1. LLM provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	defaultModel := "gpt-4o-mini"
	if cfg.Provider == ProviderOllama {
		defaultModel = "llama3.1"
	}
	modelPrompt := promptui.Prompt{
		Label:   "Completion model",
		Default: defaultModel,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Embedding model. Ollama models need an explicit dimension count.
	if cfg.Provider == ProviderOllama {
		cfg.EmbeddingProvider = ProviderOllama
		embPrompt := promptui.Prompt{
			Label:   "Embedding model",
			Default: "nomic-embed-text",
		}
		if cfg.EmbeddingModel, err = embPrompt.Run(); err != nil {
			return nil, fmt.Errorf("embedding model: %w", err)
		}
		dimsPrompt := promptui.Prompt{
			Label:   "Embedding dimensions",
			Default: "768",
		}
		dimsStr, err := dimsPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("embedding dimensions: %w", err)
		}
		if _, err := fmt.Sscanf(strings.TrimSpace(dimsStr), "%d", &cfg.EmbeddingDims); err != nil {
			return nil, fmt.Errorf("embedding dimensions %q: %w", dimsStr, err)
		}
	}

	// 4. Knowledge directory.
	dirPrompt := promptui.Prompt{
		Label:   "Knowledge base directory (markdown documents)",
		Default: cfg.KnowledgeDir,
	}
	if cfg.KnowledgeDir, err = dirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("knowledge dir: %w", err)
	}

	// 5. Vector store backend.
	storePrompt := promptui.Select{
		Label: "Vector store",
		Items: []string{"memory (rebuilt on startup)", "chromem (persisted to disk)"},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	if storeIdx == 1 {
		cfg.VectorStore = StoreChromem
	}

	// 6. Default user location.
	locationPrompt := promptui.Prompt{
		Label:   "Default user location",
		Default: cfg.Location,
	}
	if cfg.Location, err = locationPrompt.Run(); err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("Configuration written to %s\n", path)
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		fmt.Printf("Remember to set %s before running govchat.\n", envVar)
	}
	return cfg, nil
}
