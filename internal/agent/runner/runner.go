// Package runner executes one registered agent through the ADK runtime and
// turns the resulting event stream into a reply.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	adksession "google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/moolen/rfpagents/internal/agent/audit"
	"github.com/moolen/rfpagents/internal/agent/registry"
	"github.com/moolen/rfpagents/internal/logging"
)

// AppName is the ADK application name for all sessions.
const AppName = "rfpagents"

// Config configures a Runner.
type Config struct {
	Registry *registry.Registry

	// AgentID selects the registered agent to run.
	AgentID string

	// SessionID defaults to a random UUID.
	SessionID string

	// UserID defaults to "user".
	UserID string

	// AuditLogPath enables the JSONL audit log when set.
	AuditLogPath string
}

// ToolCall is one tool invocation made while answering.
type ToolCall struct {
	Agent    string
	Name     string
	Args     map[string]any
	Success  bool
	Duration time.Duration
}

// Reply is the outcome of one user turn.
type Reply struct {
	// Text is the final response shown to the user.
	Text string

	// Agent authored the final response. It differs from the selected agent
	// after a transfer.
	Agent string

	ToolCalls    []ToolCall
	LLMRequests  int
	InputTokens  int
	OutputTokens int
}

// Runner holds one ADK session with a registered agent.
type Runner struct {
	descriptor     registry.Descriptor
	adkRunner      *runner.Runner
	sessionService adksession.Service
	auditLogger    *audit.Logger
	logger         *logging.Logger

	sessionID      string
	userID         string
	sessionCreated bool

	totalLLMRequests  int
	totalInputTokens  int
	totalOutputTokens int
}

// New resolves cfg.AgentID in the registry and prepares a session. Unknown
// ids return the registry's *registry.NotFoundError.
func New(cfg Config) (*Runner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("runner: registry is required")
	}

	d, err := cfg.Registry.Get(cfg.AgentID)
	if err != nil {
		return nil, err
	}
	if d.Agent == nil {
		return nil, fmt.Errorf("agent %s has no runtime agent", d.ID)
	}

	r := &Runner{
		descriptor:     d,
		sessionService: adksession.InMemoryService(),
		sessionID:      cfg.SessionID,
		userID:         cfg.UserID,
		logger:         logging.GetLogger("runner").WithField("agent", string(d.ID)),
	}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	if r.userID == "" {
		r.userID = "user"
	}

	r.adkRunner, err = runner.New(runner.Config{
		AppName:        AppName,
		Agent:          d.Agent,
		SessionService: r.sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK runner: %w", err)
	}

	if cfg.AuditLogPath != "" {
		r.auditLogger, err = audit.NewLogger(cfg.AuditLogPath, r.sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to create audit logger: %w", err)
		}
	}

	return r, nil
}

// SessionID returns the ADK session identifier.
func (r *Runner) SessionID() string { return r.sessionID }

// Descriptor returns the registry row being run.
func (r *Runner) Descriptor() registry.Descriptor { return r.descriptor }

func (r *Runner) ensureSession(ctx context.Context) error {
	if r.sessionCreated {
		return nil
	}
	_, err := r.sessionService.Create(ctx, &adksession.CreateRequest{
		AppName:   AppName,
		UserID:    r.userID,
		SessionID: r.sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	r.sessionCreated = true
	_ = r.auditLogger.LogSessionStart(string(r.descriptor.ID), r.descriptor.Config.Model)
	return nil
}

// Ask sends message to the agent and waits for the final response.
func (r *Runner) Ask(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}
	if err := r.ensureSession(ctx); err != nil {
		return nil, err
	}

	_ = r.auditLogger.LogUserMessage(message)
	r.logger.Debug("Running turn in session %s", r.sessionID)

	userContent := genai.NewContentFromText(message, genai.RoleUser)
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	turn := newTurnState(r.descriptor.Config.Name)
	for event, err := range r.adkRunner.Run(ctx, r.userID, r.sessionID, userContent, runConfig) {
		if err != nil {
			_ = r.auditLogger.LogError(turn.currentAgent, err)
			return nil, fmt.Errorf("agent error: %w", err)
		}
		if event == nil {
			continue
		}
		r.handleEvent(turn, event)
	}

	r.totalLLMRequests += turn.reply.LLMRequests
	r.totalInputTokens += turn.reply.InputTokens
	r.totalOutputTokens += turn.reply.OutputTokens

	if turn.reply.Text == "" {
		turn.reply.Text = turn.lastText
	}
	if turn.reply.Agent == "" {
		turn.reply.Agent = turn.currentAgent
	}
	return turn.reply, nil
}

// Close ends the session and flushes the audit log.
func (r *Runner) Close() error {
	if r.sessionCreated {
		_ = r.auditLogger.LogSessionMetrics(r.totalLLMRequests, r.totalInputTokens, r.totalOutputTokens)
		_ = r.auditLogger.LogSessionEnd()
	}
	return r.auditLogger.Close()
}
