// Package config loads the process-wide rfpagents configuration.
//
// Values come from an optional YAML file and are then overridden by
// environment variables. The corpus identifier (RAG_CORPUS) is mandatory: every
// agent binds its retrieval tool to it, so a missing value stops startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Retrieval backends.
const (
	BackendVertex = "vertex"
	BackendQdrant = "qdrant"
	BackendMemory = "memory"
)

// Defaults applied before the file and environment are read.
const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultBackend        = BackendVertex
	DefaultLocation       = "us-central1"
	DefaultQdrantAddress  = "localhost:6334"
	DefaultEmbeddingModel = "text-embedding-004"
	DefaultBatchSize      = 16
	DefaultCacheSize      = 256
	DefaultCacheTTL       = 5 * time.Minute
)

// ErrMissingCorpus is returned when no corpus identifier is configured.
var ErrMissingCorpus = NewConfigError("RAG_CORPUS is not set: configure the corpus identifier before starting the agents")

// Config holds all configuration for the application
type Config struct {
	// Corpus identifies the document corpus every retrieval tool queries.
	// For the vertex backend this is a RAG corpus resource name
	// (projects/<p>/locations/<l>/ragCorpora/<id>); for qdrant and memory it
	// is the collection name.
	Corpus string `yaml:"corpus"`

	// Model is the model identifier used by every agent.
	Model string `yaml:"model"`

	// Backend selects how retrieval is executed: vertex, qdrant or memory.
	Backend string `yaml:"backend"`

	// LogLevel is the default logging level.
	LogLevel string `yaml:"log_level"`

	Google    GoogleConfig    `yaml:"google"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// GoogleConfig configures the genai client.
type GoogleConfig struct {
	Project     string `yaml:"project"`
	Location    string `yaml:"location"`
	APIKey      string `yaml:"api_key"`
	UseVertexAI bool   `yaml:"use_vertexai"`
}

// QdrantConfig configures the qdrant retrieval backend.
type QdrantConfig struct {
	// Address is the gRPC host:port of the qdrant server.
	Address string `yaml:"address"`
	// Collection defaults to Corpus when empty.
	Collection string `yaml:"collection"`
}

// EmbeddingConfig configures query and ingest embeddings for local backends.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// RetrievalConfig tunes the retrieval result cache.
type RetrievalConfig struct {
	// CacheSize is the number of cached queries; 0 disables caching.
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	TLSCAPath   string `yaml:"tls_ca_path"`
	TLSInsecure bool   `yaml:"tls_insecure"`
}

// Default returns a Config with every default filled in and no corpus.
func Default() *Config {
	return &Config{
		Model:    DefaultModel,
		Backend:  DefaultBackend,
		LogLevel: "info",
		Google: GoogleConfig{
			Location: DefaultLocation,
		},
		Qdrant: QdrantConfig{
			Address: DefaultQdrantAddress,
		},
		Embedding: EmbeddingConfig{
			Model:     DefaultEmbeddingModel,
			BatchSize: DefaultBatchSize,
		},
		Retrieval: RetrievalConfig{
			CacheSize: DefaultCacheSize,
			CacheTTL:  DefaultCacheTTL,
		},
	}
}

// QdrantCollection returns the configured collection or the corpus name.
func (c *Config) QdrantCollection() string {
	if c.Qdrant.Collection != "" {
		return c.Qdrant.Collection
	}
	return c.Corpus
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Corpus) == "" {
		return ErrMissingCorpus
	}

	if c.Model == "" {
		return NewConfigError("model must not be empty")
	}

	switch c.Backend {
	case BackendVertex:
		if !strings.HasPrefix(c.Corpus, "projects/") || !strings.Contains(c.Corpus, "/ragCorpora/") {
			return NewConfigError(fmt.Sprintf(
				"corpus %q is not a RAG corpus resource name (expected projects/<project>/locations/<location>/ragCorpora/<id>)",
				c.Corpus,
			))
		}
	case BackendQdrant:
		if c.Qdrant.Address == "" {
			return NewConfigError("qdrant.address must be set for the qdrant backend")
		}
	case BackendMemory:
	default:
		return NewConfigError(fmt.Sprintf(
			"unsupported backend %q (expected %s, %s or %s)",
			c.Backend, BackendVertex, BackendQdrant, BackendMemory,
		))
	}

	if c.Backend != BackendVertex {
		if c.Embedding.Model == "" {
			return NewConfigError("embedding.model must be set for local retrieval backends")
		}
		if c.Embedding.BatchSize < 1 {
			return NewConfigError("embedding.batch_size must be at least 1")
		}
	}

	if c.Retrieval.CacheSize < 0 {
		return NewConfigError("retrieval.cache_size must not be negative")
	}
	if c.Retrieval.CacheSize > 0 && c.Retrieval.CacheTTL <= 0 {
		return NewConfigError("retrieval.cache_ttl must be positive when caching is enabled")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return NewConfigError("tracing.endpoint must be set when tracing is enabled")
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
