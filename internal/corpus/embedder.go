package corpus

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedding task types understood by Gemini embedding models.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// contentEmbedder is the subset of *genai.Models used for embeddings.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GenAIEmbedder embeds texts with a Gemini embedding model.
type GenAIEmbedder struct {
	models   contentEmbedder
	model    string
	taskType string
}

// NewGenAIEmbedder returns an embedder using client.Models.
func NewGenAIEmbedder(client *genai.Client, model, taskType string) (*GenAIEmbedder, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}
	return newGenAIEmbedder(client.Models, model, taskType)
}

func newGenAIEmbedder(models contentEmbedder, model, taskType string) (*GenAIEmbedder, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	return &GenAIEmbedder{models: models, model: model, taskType: taskType}, nil
}

// WithTaskType returns a copy of e that embeds for taskType.
func (e *GenAIEmbedder) WithTaskType(taskType string) *GenAIEmbedder {
	cp := *e
	cp.taskType = taskType
	return &cp
}

func (e *GenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	var cfg *genai.EmbedContentConfig
	if e.taskType != "" {
		cfg = &genai.EmbedContentConfig{TaskType: e.taskType}
	}

	resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts with %s: %w", len(texts), e.model, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding model %s returned %d vectors for %d texts", e.model, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embedding model %s returned an empty vector at %d", e.model, i)
		}
		out[i] = emb.Values
	}
	return out, nil
}
