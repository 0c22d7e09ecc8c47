// Package catalog wires the RFP agents into a registry. The table in
// entries is the only place an agent's identifier, description and
// configuration are declared together.
package catalog

import (
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/agent/registry"
	"github.com/moolen/rfpagents/internal/agent/retrieval"
	"github.com/moolen/rfpagents/internal/agent/rfp/creation"
	"github.com/moolen/rfpagents/internal/agent/rfp/orchestrator"
	"github.com/moolen/rfpagents/internal/agent/rfp/query"
	"github.com/moolen/rfpagents/internal/agent/rfp/validation"
	"github.com/moolen/rfpagents/internal/logging"
)

// Dependencies are the collaborators every agent is built with.
type Dependencies struct {
	// LLM runs every agent.
	LLM model.LLM

	// Corpus identifies the document corpus all retrieval tools search.
	Corpus string

	// Model overrides agentconfig.DefaultModel in every config. It is
	// informational when LLM is already constructed.
	Model string

	// Retriever serves retrieval tools from a local corpus. When nil, tools
	// use Gemini's built-in Vertex AI RAG retrieval against Corpus.
	Retriever retrieval.Retriever

	// Metrics is optional.
	Metrics *retrieval.Metrics
}

// handoff reports whether the orchestrator gets transfer sub-agents. Gemini's
// built-in retrieval cannot share a request with function declarations such
// as transfer_to_agent, so the vertex backend routes by instruction alone.
func (d Dependencies) handoff() bool {
	return d.Retriever != nil
}

// agentScoped is implemented by models that answer differently per agent.
type agentScoped interface {
	ForAgent(agentName string) model.LLM
}

// llmFor returns the view of llm used by agentName.
func llmFor(llm model.LLM, agentName string) model.LLM {
	if s, ok := llm.(agentScoped); ok {
		return s.ForAgent(agentName)
	}
	return llm
}

type builder func(llm model.LLM, cfg agentconfig.Config, t tool.Tool, deps Dependencies) (agent.Agent, error)

type entry struct {
	id          registry.Identifier
	description string
	config      func(deps Dependencies) agentconfig.Config
	build       builder
}

// entries lists the agents in registration order.
var entries = []entry{
	{
		id:          query.Identifier,
		description: query.AgentDescription,
		config:      func(d Dependencies) agentconfig.Config { return query.Config(d.Corpus) },
		build: func(llm model.LLM, cfg agentconfig.Config, t tool.Tool, _ Dependencies) (agent.Agent, error) {
			return query.New(llm, cfg, t)
		},
	},
	{
		id:          creation.Identifier,
		description: creation.AgentDescription,
		config:      func(d Dependencies) agentconfig.Config { return creation.Config(d.Corpus) },
		build: func(llm model.LLM, cfg agentconfig.Config, t tool.Tool, _ Dependencies) (agent.Agent, error) {
			return creation.New(llm, cfg, t)
		},
	},
	{
		id:          validation.Identifier,
		description: validation.AgentDescription,
		config:      func(d Dependencies) agentconfig.Config { return validation.Config(d.Corpus) },
		build: func(llm model.LLM, cfg agentconfig.Config, t tool.Tool, _ Dependencies) (agent.Agent, error) {
			return validation.New(llm, cfg, t)
		},
	},
	{
		id:          orchestrator.Identifier,
		description: orchestrator.AgentDescription,
		config:      orchestratorConfig,
		build:       buildOrchestrator,
	},
}

// NewRegistry builds every agent and returns the validated registry.
func NewRegistry(deps Dependencies) (*registry.Registry, error) {
	descriptors, err := Descriptors(deps)
	if err != nil {
		return nil, err
	}
	return registry.New(descriptors...)
}

// Descriptors builds one descriptor per agent in registration order.
func Descriptors(deps Dependencies) ([]registry.Descriptor, error) {
	if deps.LLM == nil {
		return nil, fmt.Errorf("catalog: LLM is required")
	}

	logger := logging.GetLogger("catalog")
	out := make([]registry.Descriptor, 0, len(entries))
	for _, e := range entries {
		cfg := e.config(deps).WithModel(deps.Model)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("agent %s: %w", e.id, err)
		}

		t, err := retrievalTool(cfg.Retrieval, deps)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", e.id, err)
		}

		a, err := e.build(llmFor(deps.LLM, cfg.Name), cfg, t, deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create agent %s: %w", e.id, err)
		}

		out = append(out, registry.Descriptor{
			ID:          e.id,
			Description: e.description,
			Config:      cfg,
			Agent:       a,
		})
		logger.DebugWithFields("Built agent",
			logging.Field("id", e.id),
			logging.Field("name", cfg.Name),
			logging.Field("tool", cfg.Retrieval.ToolName))
	}
	return out, nil
}

// Configs returns the configuration of every agent without building any, for
// listings that must not touch the model. deps.LLM is not used.
func Configs(deps Dependencies) []registry.Descriptor {
	out := make([]registry.Descriptor, 0, len(entries))
	for _, e := range entries {
		out = append(out, registry.Descriptor{
			ID:          e.id,
			Description: e.description,
			Config:      e.config(deps).WithModel(deps.Model),
		})
	}
	return out
}

func orchestratorConfig(deps Dependencies) agentconfig.Config {
	if deps.handoff() {
		return orchestrator.Config(deps.Corpus)
	}
	return orchestrator.StandaloneConfig(deps.Corpus)
}

// buildOrchestrator gives the orchestrator its own creation and validation
// instances as transfer targets when the backend allows handoff.
func buildOrchestrator(llm model.LLM, cfg agentconfig.Config, t tool.Tool, deps Dependencies) (agent.Agent, error) {
	if !deps.handoff() {
		return orchestrator.New(llm, cfg, t)
	}

	var subAgents []agent.Agent
	for _, sub := range []struct {
		config func(string) agentconfig.Config
		build  func(model.LLM, agentconfig.Config, tool.Tool) (agent.Agent, error)
	}{
		{creation.Config, creation.New},
		{validation.Config, validation.New},
	} {
		subCfg := sub.config(deps.Corpus).WithModel(deps.Model)
		subTool, err := retrievalTool(subCfg.Retrieval, deps)
		if err != nil {
			return nil, err
		}
		a, err := sub.build(llmFor(deps.LLM, subCfg.Name), subCfg, subTool)
		if err != nil {
			return nil, fmt.Errorf("failed to create sub-agent %s: %w", subCfg.Name, err)
		}
		subAgents = append(subAgents, a)
	}
	return orchestrator.New(llm, cfg, t, subAgents...)
}

func retrievalTool(cfg agentconfig.Retrieval, deps Dependencies) (tool.Tool, error) {
	if deps.Retriever == nil {
		return retrieval.NewVertexTool(cfg)
	}
	return retrieval.NewTool(cfg, deps.Retriever, retrieval.WithMetrics(deps.Metrics))
}
