package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// StoreType identifies the vector store backend.
type StoreType string

const (
	StoreMemory  StoreType = "memory"
	StoreChromem StoreType = "chromem"
)

// AddressFallback controls which slot an unlabeled address is assigned to
// when an address-change utterance contains a single address with no
// "current"/"new" marker.
type AddressFallback string

const (
	FallbackNew     AddressFallback = "new"
	FallbackCurrent AddressFallback = "current"
)

// Config is the top-level govchat configuration, corresponding to .govchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	// EmbeddingDims is required for Ollama embedding models, which do not
	// report their output dimension count.
	EmbeddingDims int `yaml:"embedding_dims" koanf:"embedding_dims"`

	VectorStore  StoreType `yaml:"vector_store" koanf:"vector_store"`
	KnowledgeDir string    `yaml:"knowledge_dir" koanf:"knowledge_dir"`
	Include      []string  `yaml:"include" koanf:"include"`
	Exclude      []string  `yaml:"exclude" koanf:"exclude"`
	DataDir      string    `yaml:"data_dir" koanf:"data_dir"`

	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopK         int `yaml:"top_k" koanf:"top_k"`

	// HistoryWindow is the number of most recent conversation turns
	// included in the completion prompt.
	HistoryWindow int `yaml:"history_window" koanf:"history_window"`

	Location        string          `yaml:"location" koanf:"location"`
	AddressFallback AddressFallback `yaml:"address_fallback" koanf:"address_fallback"`

	CompletionTimeoutSeconds int `yaml:"completion_timeout_seconds" koanf:"completion_timeout_seconds"`
	MaxRPM                   int `yaml:"max_rpm" koanf:"max_rpm"`

	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
