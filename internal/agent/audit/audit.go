// Package audit records agent sessions to a JSONL file: every user message,
// agent activation, tool call, model reply and error, one event per line.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	EventTypeSessionStart   EventType = "session_start"
	EventTypeUserMessage    EventType = "user_message"
	EventTypeAgentActivated EventType = "agent_activated"
	EventTypeAgentTransfer  EventType = "agent_transfer"
	EventTypeToolStart      EventType = "tool_start"
	EventTypeToolComplete   EventType = "tool_complete"
	EventTypeAgentText      EventType = "agent_text"
	EventTypeLLMRequest     EventType = "llm_request"
	EventTypeError          EventType = "error"
	EventTypeSessionMetrics EventType = "session_metrics"
	EventTypeSessionEnd     EventType = "session_end"
)

// Event represents a single audit log event.
type Event struct {
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id"`
	Agent     string                 `json:"agent,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Logger writes audit events to a JSONL file. Each event is flushed as soon
// as it is written. A nil *Logger discards everything.
type Logger struct {
	file      *os.File
	writer    *bufio.Writer
	mutex     sync.Mutex
	sessionID string
	now       func() time.Time
}

// NewLogger opens filePath for appending.
func NewLogger(filePath, sessionID string) (*Logger, error) {
	// #nosec G304 -- audit log path is user configuration
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		file:      file,
		writer:    bufio.NewWriter(file),
		sessionID: sessionID,
		now:       time.Now,
	}, nil
}

func (l *Logger) write(eventType EventType, agent string, data map[string]interface{}) error {
	if l == nil {
		return nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	line, err := json.Marshal(Event{
		Timestamp: l.now(),
		Type:      eventType,
		SessionID: l.sessionID,
		Agent:     agent,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if _, err := l.writer.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}
	return nil
}

// LogSessionStart records the agent and model serving the session.
func (l *Logger) LogSessionStart(agentID, model string) error {
	return l.write(EventTypeSessionStart, "", map[string]interface{}{
		"agent_id": agentID,
		"model":    model,
	})
}

func (l *Logger) LogUserMessage(message string) error {
	return l.write(EventTypeUserMessage, "", map[string]interface{}{
		"message": message,
	})
}

func (l *Logger) LogAgentActivated(agentName string) error {
	return l.write(EventTypeAgentActivated, agentName, nil)
}

func (l *Logger) LogAgentTransfer(fromAgent, toAgent string) error {
	return l.write(EventTypeAgentTransfer, fromAgent, map[string]interface{}{
		"from_agent": fromAgent,
		"to_agent":   toAgent,
	})
}

func (l *Logger) LogToolStart(agentName, toolName string, args map[string]interface{}) error {
	return l.write(EventTypeToolStart, agentName, map[string]interface{}{
		"tool_name": toolName,
		"args":      args,
	})
}

func (l *Logger) LogToolComplete(agentName, toolName string, success bool, duration time.Duration, result interface{}) error {
	return l.write(EventTypeToolComplete, agentName, map[string]interface{}{
		"tool_name":   toolName,
		"success":     success,
		"duration_ms": duration.Milliseconds(),
		"result":      result,
	})
}

func (l *Logger) LogAgentText(agentName, content string, isFinal bool) error {
	return l.write(EventTypeAgentText, agentName, map[string]interface{}{
		"content":  content,
		"is_final": isFinal,
	})
}

// LogLLMRequest records token usage of one model call.
func (l *Logger) LogLLMRequest(agentName, model string, inputTokens, outputTokens int, stopReason string) error {
	return l.write(EventTypeLLMRequest, agentName, map[string]interface{}{
		"model":         model,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
		"total_tokens":  inputTokens + outputTokens,
		"stop_reason":   stopReason,
	})
}

func (l *Logger) LogError(agentName string, err error) error {
	return l.write(EventTypeError, agentName, map[string]interface{}{
		"error": err.Error(),
	})
}

// LogSessionMetrics records totals for the whole session.
func (l *Logger) LogSessionMetrics(requests, inputTokens, outputTokens int) error {
	return l.write(EventTypeSessionMetrics, "", map[string]interface{}{
		"total_llm_requests":  requests,
		"total_input_tokens":  inputTokens,
		"total_output_tokens": outputTokens,
		"total_tokens":        inputTokens + outputTokens,
	})
}

func (l *Logger) LogSessionEnd() error {
	return l.write(EventTypeSessionEnd, "", nil)
}

// Close flushes pending writes and closes the file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	var errs []error
	if err := l.writer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush audit log: %w", err))
	}
	if err := l.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close audit log file: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing audit log: %v", errs)
	}
	return nil
}
