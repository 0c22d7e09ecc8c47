// Package creation implements the agent that drafts RFPs from project details.
package creation

import (
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/agent/registry"
)

// Identifier is the registry key of the creation agent.
const Identifier registry.Identifier = "rfp_creation"

// AgentName is the name of the creation agent.
const AgentName = "rfp_creation_agent"

// AgentDescription is shown in agent listings and to the orchestrator, which
// uses it to decide when to hand a conversation over.
const AgentDescription = "Specialized agent for creating RFPs from project details"

// Retrieval tool settings.
const (
	ToolName                = "retrieve_rfp_creation_guidelines"
	ToolDescription         = "Use this tool to retrieve RFP creation guidelines, templates and required sections from the Digital Projects RFPs document."
	SimilarityTopK          = 10
	VectorDistanceThreshold = 0.5
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

// New creates the RFP creation agent.
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
