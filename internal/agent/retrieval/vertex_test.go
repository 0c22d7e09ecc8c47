package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexRetrieval(t *testing.T) {
	cfg := validationRetrieval()
	cfg.SimilarityTopK = 15

	spec, err := VertexRetrieval(cfg)
	require.NoError(t, err)
	require.NotNil(t, spec.Retrieval)

	store := spec.Retrieval.VertexRAGStore
	require.NotNil(t, store)
	require.Len(t, store.RAGResources, 1)
	assert.Equal(t, cfg.Corpus, store.RAGResources[0].RAGCorpus)
	assert.Equal(t, int32(15), *store.SimilarityTopK)
	assert.Equal(t, 0.5, *store.VectorDistanceThreshold)
}

func TestVertexRetrieval_Invalid(t *testing.T) {
	cfg := validationRetrieval()
	cfg.Corpus = ""
	_, err := VertexRetrieval(cfg)
	assert.Error(t, err)

	cfg = validationRetrieval()
	cfg.SimilarityTopK = 0
	_, err = VertexRetrieval(cfg)
	assert.Error(t, err)
}

func TestNewVertexTool(t *testing.T) {
	tl, err := NewVertexTool(validationRetrieval())
	require.NoError(t, err)
	assert.Equal(t, "retrieve_rfp_validation_guidelines", tl.Name())
}
