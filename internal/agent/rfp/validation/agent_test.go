package validation

import (
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	cfg := Config("projects/p/locations/l/ragCorpora/1")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid: %v", err)
	}
	if cfg.Name != AgentName {
		t.Errorf("name = %q, want %q", cfg.Name, AgentName)
	}
	if cfg.Retrieval.ToolName != ToolName {
		t.Errorf("tool = %q, want %q", cfg.Retrieval.ToolName, ToolName)
	}
	if cfg.Retrieval.SimilarityTopK != SimilarityTopK || cfg.Retrieval.VectorDistanceThreshold != VectorDistanceThreshold {
		t.Errorf("unexpected retrieval settings: %+v", cfg.Retrieval)
	}
}

func TestConfig_RequiresCorpus(t *testing.T) {
	if err := Config("").Validate(); err == nil {
		t.Fatal("expected validation error without a corpus")
	}
}

func TestSystemPromptNamesTool(t *testing.T) {
	if !strings.Contains(SystemPrompt, ToolName) {
		t.Errorf("system prompt should reference %s", ToolName)
	}
}
