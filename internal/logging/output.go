package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	outputMu sync.Mutex
	// stdout receives DEBUG/INFO/WARN, stderr receives ERROR/FATAL.
	stdout io.Writer = os.Stderr
	stderr io.Writer = os.Stderr
)

// SetOutput redirects log output. Interactive commands keep stdout free for
// agent answers, so both streams default to os.Stderr.
func SetOutput(info, errs io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	if info != nil {
		stdout = info
	}
	if errs != nil {
		stderr = errs
	}
}

func (l *Logger) logf(level LogLevel, msg string, args ...interface{}) {
	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}
	l.writeLog(level, formatted, l.mergeFields(nil))
}

func (l *Logger) logWithFields(level LogLevel, msg string, fields ...LogField) {
	l.writeLog(level, msg, l.mergeFields(fields))
}

// mergeFields layers context fields, persistent fields and call fields; later
// layers win on key collisions.
func (l *Logger) mergeFields(fields []LogField) map[string]interface{} {
	contextFields := extractContextFields(l.ctx)
	if contextFields == nil && len(l.fields) == 0 && len(fields) == 0 {
		return nil
	}

	merged := make(map[string]interface{}, len(contextFields)+len(l.fields)+len(fields))
	for k, v := range contextFields {
		merged[k] = v
	}
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return merged
}

// writeLog renders "[ts] [LEVEL] name: msg | k=v ..." with keys sorted.
func (l *Logger) writeLog(level LogLevel, msg string, fields map[string]interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s: %s", GetTimestamp(), level, l.name, msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	b.WriteByte('\n')

	outputMu.Lock()
	defer outputMu.Unlock()
	w := stdout
	if level >= ERROR {
		w = stderr
	}
	_, _ = io.WriteString(w, b.String())
}

// GetTimestamp returns the current time in RFC3339. LOG_TIMESTAMP overrides it
// for deterministic test output.
func GetTimestamp() string {
	if override := os.Getenv("LOG_TIMESTAMP"); override != "" {
		return override
	}
	return time.Now().Format(time.RFC3339)
}
