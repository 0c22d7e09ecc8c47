package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"

	"github.com/moolen/rfpagents/internal/agent/catalog"
	"github.com/moolen/rfpagents/internal/agent/model"
	"github.com/moolen/rfpagents/internal/agent/retrieval"
	"github.com/moolen/rfpagents/internal/config"
	"github.com/moolen/rfpagents/internal/corpus"
	"github.com/moolen/rfpagents/internal/logging"
)

// stack holds the collaborators shared by every agent for one command.
type stack struct {
	deps    catalog.Dependencies
	cache   *retrieval.CachingRetriever
	closers []func() error
}

func (s *stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func modelConfig(cfg *config.Config, name string) model.Config {
	return model.Config{
		Name:        name,
		Project:     cfg.Google.Project,
		Location:    cfg.Google.Location,
		APIKey:      cfg.Google.APIKey,
		UseVertexAI: cfg.Google.UseVertexAI,
	}
}

func newGenAIClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	cc, err := model.ClientConfig(modelConfig(cfg, cfg.Embedding.Model))
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

// newEmbedder returns a document embedder for cfg's embedding model.
func newEmbedder(ctx context.Context, cfg *config.Config) (*corpus.GenAIEmbedder, error) {
	client, err := newGenAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return corpus.NewGenAIEmbedder(client, cfg.Embedding.Model, corpus.TaskRetrievalDocument)
}

// openStore opens the vector store behind a local backend.
func openStore(ctx context.Context, cfg *config.Config) (corpus.Store, error) {
	switch cfg.Backend {
	case config.BackendQdrant:
		store, err := corpus.NewQdrantStore(ctx, cfg.Qdrant.Address, cfg.QdrantCollection())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return corpus.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("backend %q has no local store", cfg.Backend)
	}
}

// newStack builds the model and the retrieval backend selected by cfg.
// docs are ingested into the memory backend before it serves queries.
func newStack(ctx context.Context, cfg *config.Config, modelName string, docs []string, reg prometheus.Registerer) (*stack, error) {
	logger := logging.GetLogger("commands")

	llm, err := model.New(ctx, modelConfig(cfg, modelName))
	if err != nil {
		return nil, err
	}

	s := &stack{deps: catalog.Dependencies{
		LLM:    llm,
		Corpus: cfg.Corpus,
		Model:  modelName,
	}}
	if reg != nil {
		s.deps.Metrics = retrieval.NewMetrics(reg)
	}

	if cfg.Backend == config.BackendVertex {
		logger.Info("Using Vertex AI RAG retrieval against %s", cfg.Corpus)
		return s, nil
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, store.Close)

	if cfg.Backend == config.BackendMemory {
		if len(docs) == 0 {
			_ = s.Close()
			return nil, fmt.Errorf("the memory backend needs --docs to ingest")
		}
		stats, err := corpus.NewIngester(embedder, store, cfg.Embedding.BatchSize).IngestPaths(ctx, docs...)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		logger.Info("Loaded %d documents (%d chunks) into memory", stats.Documents, stats.Chunks)
	}

	var retriever retrieval.Retriever = corpus.NewSearcher(embedder.WithTaskType(corpus.TaskRetrievalQuery), store)
	if cfg.Retrieval.CacheSize > 0 {
		s.cache, err = retrieval.NewCachingRetriever(retriever, retrieval.CacheConfig{
			Size: cfg.Retrieval.CacheSize,
			TTL:  cfg.Retrieval.CacheTTL,
		}, s.deps.Metrics)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		retriever = s.cache
	}
	s.deps.Retriever = retriever

	logger.Info("Using %s retrieval for corpus %s", cfg.Backend, cfg.Corpus)
	return s, nil
}
