package config

// DefaultExcludes are glob patterns excluded from corpus loading by default.
var DefaultExcludes = []string{
	".git/**",
	"README.md",
	"*.draft.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		VectorStore:       StoreMemory,
		KnowledgeDir:      "knowledge_base",
		Include:           []string{"**/*.md"},
		Exclude:           DefaultExcludes,
		DataDir:           ".govchat",
		ChunkSize:         1000,
		ChunkOverlap:      200,
		TopK:              5,
		HistoryWindow:     5,
		Location:          "California",
		AddressFallback:   FallbackNew,

		CompletionTimeoutSeconds: 30,
		MaxRPM:                   60,

		Port: 8080,
	}
}
