// Package orchestrator implements the entry-point agent that works out what
// the user needs and either answers directly or hands the conversation to the
// creation or validation agent.
package orchestrator

import (
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/agent/registry"
)

// Identifier is the registry key of the orchestrator.
const Identifier registry.Identifier = "rfp_orchestrator"

// AgentName is the name of the orchestrator.
const AgentName = "rfp_orchestrator_agent"

// AgentDescription is shown in agent listings.
const AgentDescription = "Orchestrator agent for routing RFP-related requests"

// Retrieval tool settings.
const (
	ToolName                = "retrieve_rfp_guidance"
	ToolDescription         = "Use this tool to retrieve general RFP guidance, requirements and best practices from the Digital Projects RFPs document."
	SimilarityTopK          = 10
	VectorDistanceThreshold = 0.6
)

// Config returns the configuration of an orchestrator that hands creation
// and validation to its sub-agents.
func Config(corpus string) agentconfig.Config {
	return config(corpus, SystemPrompt)
}

// StandaloneConfig returns the configuration of an orchestrator without
// sub-agents, which drafts and reviews RFPs itself.
func StandaloneConfig(corpus string) agentconfig.Config {
	return config(corpus, StandalonePrompt)
}

func config(corpus, instruction string) agentconfig.Config {
	return agentconfig.Config{
		Name:        AgentName,
		Model:       agentconfig.DefaultModel,
		Instruction: instruction,
		Retrieval: agentconfig.Retrieval{
			ToolName:                ToolName,
			ToolDescription:         ToolDescription,
			Corpus:                  corpus,
			SimilarityTopK:          SimilarityTopK,
			VectorDistanceThreshold: VectorDistanceThreshold,
		},
	}
}

// New creates the orchestrator. subAgents become transfer targets; each must
// be a dedicated instance because an ADK agent can only have one parent.
// Without subAgents, cfg should come from StandaloneConfig.
func New(llm model.LLM, cfg agentconfig.Config, retrieval tool.Tool, subAgents ...agent.Agent) (agent.Agent, error) {
	return llmagent.New(llmagent.Config{
		Name:            cfg.Name,
		Description:     AgentDescription,
		Model:           llm,
		Instruction:     cfg.Instruction,
		Tools:           []tool.Tool{retrieval},
		SubAgents:       subAgents,
		IncludeContents: llmagent.IncludeContentsDefault,
	})
}
