package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	config   *genai.EmbedContentConfig
	contents []*genai.Content
	resp     *genai.EmbedContentResponse
	err      error
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func TestGenAIEmbedder_Embed(t *testing.T) {
	fm := &fakeModels{resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{
		{Values: []float32{0.1, 0.2}},
		{Values: []float32{0.3, 0.4}},
	}}}

	e, err := newGenAIEmbedder(fm, "text-embedding-004", TaskRetrievalDocument)
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)

	assert.Equal(t, "text-embedding-004", fm.model)
	require.NotNil(t, fm.config)
	assert.Equal(t, TaskRetrievalDocument, fm.config.TaskType)
	require.Len(t, fm.contents, 2)
	assert.Equal(t, "second", fm.contents[1].Parts[0].Text)
}

func TestGenAIEmbedder_WithTaskType(t *testing.T) {
	fm := &fakeModels{resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}}}}
	e, err := newGenAIEmbedder(fm, "m", TaskRetrievalDocument)
	require.NoError(t, err)

	q := e.WithTaskType(TaskRetrievalQuery)
	_, err = q.Embed(context.Background(), []string{"q"})
	require.NoError(t, err)
	assert.Equal(t, TaskRetrievalQuery, fm.config.TaskType)
	assert.Equal(t, TaskRetrievalDocument, e.taskType)
}

func TestGenAIEmbedder_Errors(t *testing.T) {
	_, err := newGenAIEmbedder(&fakeModels{}, "", "")
	assert.Error(t, err)

	fm := &fakeModels{err: errors.New("unavailable")}
	e, err := newGenAIEmbedder(fm, "m", "")
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "unavailable")

	fm = &fakeModels{resp: &genai.EmbedContentResponse{}}
	e, _ = newGenAIEmbedder(fm, "m", "")
	_, err = e.Embed(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "returned 0 vectors for 1 texts")

	vectors, err := e.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
}
