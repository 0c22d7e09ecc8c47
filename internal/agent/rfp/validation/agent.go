// Package validation implements the agent that reviews RFPs against the
// guidelines.
package validation

import (
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/agent/registry"
)

// Identifier is the registry key of the validation agent.
const Identifier registry.Identifier = "rfp_validation"

// AgentName is the name of the validation agent.
const AgentName = "rfp_validation_agent"

// AgentDescription is shown in agent listings and to the orchestrator.
const AgentDescription = "Specialized agent for validating RFPs against guidelines"

// Retrieval tool settings. Validation compares a whole document section by
// section, so it pulls more fragments than the other agents.
const (
	ToolName                = "retrieve_rfp_validation_guidelines"
	ToolDescription         = "Use this tool to retrieve RFP validation guidelines and requirements from the Digital Projects RFPs document, to check whether an RFP meets them."
	SimilarityTopK          = 15
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

// New creates the RFP validation agent.
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
