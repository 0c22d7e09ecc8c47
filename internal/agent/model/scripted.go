package model

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"sync"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/moolen/rfpagents/internal/logging"
)

// ScriptedLLM implements model.LLM by replaying a Scenario. It lets the
// agents run end to end without network access.
type ScriptedLLM struct {
	scenario *Scenario
	logger   *logging.Logger

	mu       sync.Mutex
	matcher  *stepMatcher
	requests int
}

// NewScriptedLLM loads the scenario at path.
func NewScriptedLLM(path string) (*ScriptedLLM, error) {
	s, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return NewScriptedLLMFromScenario(s), nil
}

// NewScriptedLLMFromScenario replays an already loaded scenario.
func NewScriptedLLMFromScenario(s *Scenario) *ScriptedLLM {
	return &ScriptedLLM{
		scenario: s,
		matcher:  newStepMatcher(s.Steps),
		logger:   logging.GetLogger("model.scripted").WithField("scenario", s.Name),
	}
}

// Name returns the model identifier.
func (m *ScriptedLLM) Name() string {
	return MockPrefix + m.scenario.Name
}

// Remaining returns the number of steps not yet played.
func (m *ScriptedLLM) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matcher.remaining()
}

// Requests returns how many times the model was called.
func (m *ScriptedLLM) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// ForAgent returns a view of m that plays steps on behalf of agentName.
// Views share the scenario, so steps are consumed once across all agents.
func (m *ScriptedLLM) ForAgent(agentName string) model.LLM {
	return &agentScript{script: m, agent: agentName}
}

// GenerateContent implements model.LLM. Only steps without an agent
// restriction can fire; use ForAgent for scoped steps.
func (m *ScriptedLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return m.generate(ctx, req, "")
}

func (m *ScriptedLLM) generate(ctx context.Context, req *model.LLMRequest, agentName string) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		content := requestContent(req)

		m.mu.Lock()
		m.requests++
		step := m.matcher.nextStep(agentName, content)
		m.mu.Unlock()

		if step == nil {
			m.logger.Debug("No scripted step left for agent %s", agentName)
			yield(textResponse("[scenario complete]"), nil)
			return
		}
		yield(stepResponse(step), nil)
	}
}

func stepResponse(step *ScenarioStep) *model.LLMResponse {
	parts := make([]*genai.Part, 0, 1+len(step.ToolCalls))
	if step.Text != "" {
		parts = append(parts, &genai.Part{Text: step.Text})
	}
	for i, tc := range step.ToolCalls {
		args := tc.Args
		if args == nil {
			args = make(map[string]any)
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   fmt.Sprintf("scripted_call_%d", i),
				Name: tc.Name,
				Args: args,
			},
		})
	}

	out := int32(len(step.Text) / 4) // #nosec G115 -- bounded by scenario size
	return &model.LLMResponse{
		Content:      &genai.Content{Parts: parts, Role: "model"},
		FinishReason: genai.FinishReasonStop,
		TurnComplete: true,
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: out,
			TotalTokenCount:      100 + out,
		},
	}
}

func textResponse(text string) *model.LLMResponse {
	return stepResponse(&ScenarioStep{Text: text})
}

// requestContent flattens the conversation for trigger matching. Tool results
// are rendered as "[tool_result:<name>] <json>".
func requestContent(req *model.LLMRequest) string {
	if req == nil {
		return ""
	}

	var parts []string
	for _, c := range req.Contents {
		if c == nil {
			continue
		}
		for _, p := range c.Parts {
			if p == nil {
				continue
			}
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
			if p.FunctionResponse != nil {
				body, _ := json.Marshal(p.FunctionResponse.Response)
				parts = append(parts, fmt.Sprintf("[tool_result:%s] %s", p.FunctionResponse.Name, body))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// agentScript is the per-agent view returned by ScriptedLLM.ForAgent.
type agentScript struct {
	script *ScriptedLLM
	agent  string
}

func (a *agentScript) Name() string { return a.script.Name() }

func (a *agentScript) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return a.script.generate(ctx, req, a.agent)
}

var (
	_ model.LLM = (*ScriptedLLM)(nil)
	_ model.LLM = (*agentScript)(nil)
)
