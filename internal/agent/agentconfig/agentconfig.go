// Package agentconfig defines the structured configuration record every RFP
// agent is built from.
package agentconfig

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultModel is the model every agent uses unless configured otherwise.
const DefaultModel = "gemini-2.5-flash"

// MaxVectorDistanceThreshold bounds VectorDistanceThreshold. Cosine distance
// ranges over [0, 2].
const MaxVectorDistanceThreshold = 2.0

// Config is the complete, fixed set of fields an agent is built from.
type Config struct {
	// Name is the ADK agent name, unique within an agent tree.
	Name string

	// Model is the model identifier handed to the runtime.
	Model string

	// Instruction is the system instruction interpreted by the model.
	Instruction string

	// Retrieval binds the agent's single retrieval tool.
	Retrieval Retrieval
}

// Retrieval configures the retrieval tool attached to an agent.
type Retrieval struct {
	// ToolName is the function name exposed to the model.
	ToolName string

	// ToolDescription tells the model when to call the tool.
	ToolDescription string

	// Corpus identifies the backing document corpus.
	Corpus string

	// SimilarityTopK is the maximum number of fragments returned per query.
	SimilarityTopK int

	// VectorDistanceThreshold discards fragments whose vector distance to the
	// query is larger than this value.
	VectorDistanceThreshold float64
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid agent config")

// Validate checks that every field is populated and in range.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		problems = append(problems, "model is required")
	}
	if strings.TrimSpace(c.Instruction) == "" {
		problems = append(problems, "instruction is required")
	}
	problems = append(problems, c.Retrieval.problems()...)

	if len(problems) == 0 {
		return nil
	}

	name := c.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Errorf("%w %s: %s", ErrInvalidConfig, name, strings.Join(problems, "; "))
}

func (r Retrieval) problems() []string {
	var problems []string
	if strings.TrimSpace(r.ToolName) == "" {
		problems = append(problems, "retrieval tool name is required")
	}
	if strings.TrimSpace(r.ToolDescription) == "" {
		problems = append(problems, "retrieval tool description is required")
	}
	if strings.TrimSpace(r.Corpus) == "" {
		problems = append(problems, "retrieval corpus is required")
	}
	if r.SimilarityTopK < 1 {
		problems = append(problems, fmt.Sprintf("similarity_top_k must be at least 1, got %d", r.SimilarityTopK))
	}
	if r.VectorDistanceThreshold <= 0 || r.VectorDistanceThreshold > MaxVectorDistanceThreshold {
		problems = append(problems, fmt.Sprintf(
			"vector_distance_threshold must be in (0, %.1f], got %g",
			MaxVectorDistanceThreshold, r.VectorDistanceThreshold,
		))
	}
	return problems
}

// WithModel returns a copy of c using model when model is non-empty.
func (c Config) WithModel(model string) Config {
	if model != "" {
		c.Model = model
	}
	return c
}
