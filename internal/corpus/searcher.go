package corpus

import (
	"context"
	"fmt"

	"github.com/moolen/rfpagents/internal/agent/retrieval"
)

// Searcher answers retrieval queries against a Store.
type Searcher struct {
	embedder Embedder
	store    Store
}

var _ retrieval.Retriever = (*Searcher)(nil)

// NewSearcher pairs a query embedder with a store.
func NewSearcher(embedder Embedder, store Store) *Searcher {
	return &Searcher{embedder: embedder, store: store}
}

// Retrieve embeds the query text and returns the nearest chunks as fragments.
// Distance is cosine distance, 1 - similarity.
func (s *Searcher) Retrieve(ctx context.Context, q retrieval.Query) ([]retrieval.Fragment, error) {
	if q.Text == "" {
		return nil, retrieval.ErrEmptyQuery
	}

	vectors, err := s.embedder.Embed(ctx, []string{q.Text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	limit := q.TopK
	if limit <= 0 {
		limit = 10
	}

	matches, err := s.store.Search(ctx, vectors[0], limit)
	if err != nil {
		return nil, err
	}

	fragments := make([]retrieval.Fragment, 0, len(matches))
	for _, m := range matches {
		fragments = append(fragments, retrieval.Fragment{
			Text:      m.Chunk.Text,
			Score:     m.Score,
			Distance:  1 - m.Score,
			Title:     m.Chunk.Title,
			Section:   m.Chunk.Section,
			URL:       m.Chunk.URL,
			SourceURI: m.Chunk.SourceURI,
		})
	}
	return retrieval.Filter(fragments, q.TopK, q.DistanceThreshold), nil
}
