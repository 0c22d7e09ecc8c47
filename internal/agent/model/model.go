// Package model selects and constructs the LLM behind the agents.
package model

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// MockPrefix selects a scripted model, e.g. "mock:scenarios/create.yaml".
const MockPrefix = "mock:"

// Config selects and configures a model.
type Config struct {
	// Name is a Gemini model name or MockPrefix followed by a scenario path.
	Name string

	Project     string
	Location    string
	APIKey      string
	UseVertexAI bool
}

// IsMock reports whether name selects a scripted model.
func IsMock(name string) bool {
	return strings.HasPrefix(name, MockPrefix)
}

// New returns the model named by cfg.Name.
func New(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if IsMock(cfg.Name) {
		return NewScriptedLLM(strings.TrimPrefix(cfg.Name, MockPrefix))
	}

	cc, err := ClientConfig(cfg)
	if err != nil {
		return nil, err
	}
	llm, err := gemini.NewModel(ctx, cfg.Name, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model %s: %w", cfg.Name, err)
	}
	return llm, nil
}

// ClientConfig builds the genai client configuration for cfg. Vertex AI is
// used when requested or when no API key is available.
func ClientConfig(cfg Config) (*genai.ClientConfig, error) {
	if cfg.UseVertexAI || cfg.APIKey == "" {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("vertex AI requires GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_LOCATION (or set GOOGLE_API_KEY)")
		}
		return &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}, nil
	}
	return &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	}, nil
}
