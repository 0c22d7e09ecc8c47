package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted conversation loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one model turn.
type ScenarioStep struct {
	// Trigger decides when the step fires. Empty or "user_message" always
	// matches; "tool_result:<name>" matches once <name> has answered;
	// "contains:<text>" and bare text match case-insensitively.
	Trigger string `yaml:"trigger,omitempty"`

	// Agent restricts the step to requests made on behalf of one agent.
	Agent string `yaml:"agent,omitempty"`

	Text      string         `yaml:"text,omitempty"`
	ToolCalls []ScriptedCall `yaml:"tool_calls,omitempty"`
}

// ScriptedCall is a function call emitted by a step.
type ScriptedCall struct {
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args"`
}

// LoadScenario reads a scenario file. A leading "~" expands to the home
// directory.
func LoadScenario(path string) (*Scenario, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Validate checks the scenario for structural errors.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario must have at least one step")
	}
	for i, step := range s.Steps {
		if step.Text == "" && len(step.ToolCalls) == 0 {
			return fmt.Errorf("step[%d]: must have either text or tool_calls", i)
		}
		for j, tc := range step.ToolCalls {
			if tc.Name == "" {
				return fmt.Errorf("step[%d].tool_calls[%d]: name is required", i, j)
			}
		}
	}
	return nil
}

// stepMatcher plays steps in order. A step restricted to another agent, or
// whose trigger does not match yet, stays pending and later steps may fire
// first.
type stepMatcher struct {
	steps []ScenarioStep
	done  []bool
}

func newStepMatcher(steps []ScenarioStep) *stepMatcher {
	return &stepMatcher{steps: steps, done: make([]bool, len(steps))}
}

func (m *stepMatcher) nextStep(agentName, content string) *ScenarioStep {
	for i := range m.steps {
		if m.done[i] {
			continue
		}
		step := &m.steps[i]
		if step.Agent != "" && step.Agent != agentName {
			continue
		}
		if matchesTrigger(step.Trigger, content) {
			m.done[i] = true
			return step
		}
	}
	return nil
}

func (m *stepMatcher) remaining() int {
	n := 0
	for _, d := range m.done {
		if !d {
			n++
		}
	}
	return n
}

func matchesTrigger(trigger, content string) bool {
	switch {
	case trigger == "", trigger == "user_message":
		return true
	case strings.HasPrefix(trigger, "tool_result:"):
		return strings.Contains(content, "[tool_result:"+strings.TrimPrefix(trigger, "tool_result:")+"]")
	case strings.HasPrefix(trigger, "contains:"):
		trigger = strings.TrimPrefix(trigger, "contains:")
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(trigger))
}
