// Package query implements the general document question-answering agent.
package query

import (
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/agent/registry"
)

// Identifier is the registry key of the question-answering agent.
const Identifier registry.Identifier = "rag"

// AgentName is the name of the question-answering agent.
const AgentName = "ask_rag_agent"

// AgentDescription is shown in agent listings and to parent agents.
const AgentDescription = "General RAG agent for querying the Digital Projects RFPs document"

// Retrieval tool settings.
const (
	ToolName                = "retrieve_rfp_documentation"
	ToolDescription         = "Use this tool to retrieve documentation and reference materials from the Digital Projects RFPs corpus that help answer the question."
	SimilarityTopK          = 10
	VectorDistanceThreshold = 0.6
)

// Config returns the agent configuration bound to corpus.
func Config(corpus string) agentconfig.Config {
	return agentconfig.Config{
		Name:        AgentName,
		Model:       agentconfig.DefaultModel,
		Instruction: SystemPrompt,
		Retrieval: agentconfig.Retrieval{
			ToolName:                ToolName,
			ToolDescription:         ToolDescription,
			Corpus:                  corpus,
			SimilarityTopK:          SimilarityTopK,
			VectorDistanceThreshold: VectorDistanceThreshold,
		},
	}
}

// New creates the question-answering agent from cfg and its retrieval tool.
func New(llm model.LLM, cfg agentconfig.Config, retrieval tool.Tool) (agent.Agent, error) {
	return llmagent.New(llmagent.Config{
		Name:            cfg.Name,
		Description:     AgentDescription,
		Model:           llm,
		Instruction:     cfg.Instruction,
		Tools:           []tool.Tool{retrieval},
		IncludeContents: llmagent.IncludeContentsDefault,
	})
}
