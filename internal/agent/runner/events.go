package runner

import (
	"fmt"
	"strings"
	"time"

	adksession "google.golang.org/adk/session"
)

type pendingTool struct {
	index int
	start time.Time
}

type turnState struct {
	reply        *Reply
	currentAgent string
	lastText     string
	pending      map[string]pendingTool
	now          func() time.Time
}

func newTurnState(rootAgent string) *turnState {
	return &turnState{
		reply:        &Reply{},
		currentAgent: rootAgent,
		pending:      make(map[string]pendingTool),
		now:          time.Now,
	}
}

// handleEvent folds one ADK event into the turn and mirrors it to the audit
// log.
func (r *Runner) handleEvent(turn *turnState, event *adksession.Event) {
	if event.Author != "" && event.Author != "user" && event.Author != turn.currentAgent {
		turn.currentAgent = event.Author
		_ = r.auditLogger.LogAgentActivated(turn.currentAgent)
	}

	if usage := event.UsageMetadata; usage != nil && usage.PromptTokenCount > 0 {
		in, out := int(usage.PromptTokenCount), int(usage.CandidatesTokenCount)
		turn.reply.LLMRequests++
		turn.reply.InputTokens += in
		turn.reply.OutputTokens += out
		_ = r.auditLogger.LogLLMRequest(turn.currentAgent, r.descriptor.Config.Model, in, out, stopReason(event))
	}

	if event.Content != nil {
		var text []string
		for _, part := range event.Content.Parts {
			if part == nil {
				continue
			}
			if call := part.FunctionCall; call != nil {
				key := toolKey(call.ID, call.Name)
				turn.pending[key] = pendingTool{index: len(turn.reply.ToolCalls), start: turn.now()}
				turn.reply.ToolCalls = append(turn.reply.ToolCalls, ToolCall{
					Agent: turn.currentAgent,
					Name:  call.Name,
					Args:  call.Args,
				})
				_ = r.auditLogger.LogToolStart(turn.currentAgent, call.Name, call.Args)
			}
			if resp := part.FunctionResponse; resp != nil {
				success := toolSucceeded(resp.Response)
				var duration time.Duration
				if p, ok := turn.pending[toolKey(resp.ID, resp.Name)]; ok {
					duration = turn.now().Sub(p.start)
					turn.reply.ToolCalls[p.index].Success = success
					turn.reply.ToolCalls[p.index].Duration = duration
					delete(turn.pending, toolKey(resp.ID, resp.Name))
				}
				_ = r.auditLogger.LogToolComplete(turn.currentAgent, resp.Name, success, duration, resp.Response)
			}
			if part.Text != "" && !part.Thought {
				text = append(text, part.Text)
			}
		}

		if len(text) > 0 && event.Author != "user" {
			joined := strings.Join(text, "")
			turn.lastText = joined
			final := event.IsFinalResponse()
			_ = r.auditLogger.LogAgentText(turn.currentAgent, joined, final)
			if final {
				turn.reply.Text = joined
				turn.reply.Agent = turn.currentAgent
			}
		}
	}

	if target := event.Actions.TransferToAgent; target != "" {
		_ = r.auditLogger.LogAgentTransfer(turn.currentAgent, target)
	}
}

func toolKey(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

// toolSucceeded treats an "error" key or an error status as failure.
func toolSucceeded(resp map[string]any) bool {
	if errMsg, ok := resp["error"]; ok && errMsg != nil {
		return false
	}
	if status, ok := resp["status"]; ok && fmt.Sprint(status) == "error" {
		return false
	}
	return true
}

func stopReason(event *adksession.Event) string {
	if event.Content != nil {
		for _, part := range event.Content.Parts {
			if part != nil && part.FunctionCall != nil {
				return "tool_use"
			}
		}
	}
	return "end_turn"
}
