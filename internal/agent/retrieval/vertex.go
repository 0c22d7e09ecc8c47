package retrieval

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/geminitool"
	"google.golang.org/genai"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
)

// NewVertexTool returns the Gemini built-in retrieval tool backed by a Vertex
// AI RAG corpus. Retrieval runs inside the model call, so the tool has no
// local handler.
func NewVertexTool(cfg agentconfig.Retrieval) (tool.Tool, error) {
	spec, err := VertexRetrieval(cfg)
	if err != nil {
		return nil, err
	}
	return geminitool.New(cfg.ToolName, spec), nil
}

// VertexRetrieval builds the genai tool declaration for cfg.
func VertexRetrieval(cfg agentconfig.Retrieval) (*genai.Tool, error) {
	if cfg.Corpus == "" {
		return nil, fmt.Errorf("vertex retrieval tool %s: corpus is required", cfg.ToolName)
	}
	if cfg.SimilarityTopK < 1 {
		return nil, fmt.Errorf("vertex retrieval tool %s: similarity_top_k must be at least 1", cfg.ToolName)
	}

	return &genai.Tool{
		Retrieval: &genai.Retrieval{
			VertexRAGStore: &genai.VertexRAGStore{
				RAGResources: []*genai.VertexRAGStoreRAGResource{
					{RAGCorpus: cfg.Corpus},
				},
				SimilarityTopK:          genai.Ptr(int32(cfg.SimilarityTopK)),
				VectorDistanceThreshold: genai.Ptr(cfg.VectorDistanceThreshold),
			},
		},
	}, nil
}
