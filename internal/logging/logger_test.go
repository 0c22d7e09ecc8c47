package logging

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

// captureOutput swaps both output streams for buffers while f runs.
func captureOutput(t *testing.T, f func()) (info, errs string) {
	t.Helper()
	t.Setenv("LOG_TIMESTAMP", "2025-01-01T00:00:00Z")

	var infoBuf, errBuf bytes.Buffer
	outputMu.Lock()
	oldInfo, oldErr := stdout, stderr
	outputMu.Unlock()

	SetOutput(&infoBuf, &errBuf)
	defer SetOutput(oldInfo, oldErr)

	f()
	return infoBuf.String(), errBuf.String()
}

func resetLevels(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = Initialize("info")
		_ = SetPackageLogLevels(map[string]string{})
	})
}

func TestInitialize(t *testing.T) {
	resetLevels(t)

	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := Initialize(tt.input); err != nil {
				t.Fatalf("Initialize(%q) returned error: %v", tt.input, err)
			}
			if globalLogger.level != tt.want {
				t.Errorf("level = %v, want %v", globalLogger.level, tt.want)
			}
		})
	}
}

func TestInitializeRejectsInvalidPackageLevel(t *testing.T) {
	resetLevels(t)

	err := Initialize("info", map[string]string{"agent.registry": "loud"})
	if err == nil {
		t.Fatal("expected error for invalid package level")
	}
	if !strings.Contains(err.Error(), "agent.registry") {
		t.Errorf("error should name the package, got %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	resetLevels(t)
	_ = Initialize("warn")
	logger := GetLogger("test")

	info, errs := captureOutput(t, func() {
		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")
	})

	if strings.Contains(info, "debug message") || strings.Contains(info, "info message") {
		t.Errorf("messages below WARN should be dropped, got %q", info)
	}
	if !strings.Contains(info, "[WARN] test: warn message") {
		t.Errorf("expected warn line, got %q", info)
	}
	if !strings.Contains(errs, "[ERROR] test: error message") {
		t.Errorf("expected error on error stream, got %q", errs)
	}
}

func TestFormatting(t *testing.T) {
	resetLevels(t)
	_ = Initialize("info")
	logger := GetLogger("fmt")

	info, _ := captureOutput(t, func() {
		logger.Info("loaded %d agents from %s", 4, "catalog")
		logInfo := logger.Info // method value: keeps vet's printf check off this intentional no-args literal
		logInfo("100% literal")
	})

	if !strings.Contains(info, "loaded 4 agents from catalog") {
		t.Errorf("expected formatted message, got %q", info)
	}
	if !strings.Contains(info, "100% literal") {
		t.Errorf("messages without args must not be formatted, got %q", info)
	}
	if !strings.HasPrefix(info, "[2025-01-01T00:00:00Z] [INFO] fmt:") {
		t.Errorf("unexpected prefix: %q", info)
	}
}

func TestFieldsAreSortedAndLayered(t *testing.T) {
	resetLevels(t)
	_ = Initialize("info")

	logger := GetLogger("fields").
		WithContext(spanContext(t)).
		WithField("agent", "rag").
		WithField("trace_id", "persistent")

	info, _ := captureOutput(t, func() {
		logger.InfoWithFields("lookup", Field("agent", "rfp_creation"), Field("b", 2))
	})

	want := "| agent=rfp_creation b=2 span_id=00f067aa0ba902b7 trace_id=persistent"
	if !strings.Contains(info, want) {
		t.Errorf("expected %q in %q", want, info)
	}
}

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatal(err)
	}
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatal(err)
	}
	return trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
}

func TestWithContextAddsSpanIDs(t *testing.T) {
	resetLevels(t)
	_ = Initialize("info")

	info, _ := captureOutput(t, func() {
		GetLogger("ctx").WithContext(spanContext(t)).Info("traced")
		GetLogger("ctx").WithContext(context.Background()).Info("untraced")
	})

	lines := strings.Split(strings.TrimSpace(info), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", info)
	}
	if want := "| span_id=00f067aa0ba902b7 trace_id=4bf92f3577b34da6a3ce929d0e0e4736"; !strings.HasSuffix(lines[0], want) {
		t.Errorf("expected %q at end of %q", want, lines[0])
	}
	if strings.Contains(lines[1], "trace_id") {
		t.Errorf("untraced line should carry no trace fields: %q", lines[1])
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	resetLevels(t)
	parent := GetLogger("parent")
	child := parent.WithField("k", "v")

	if len(parent.fields) != 0 {
		t.Errorf("parent fields mutated: %v", parent.fields)
	}
	if child.fields["k"] != "v" {
		t.Errorf("child missing field: %v", child.fields)
	}

	renamed := child.WithName("other")
	if renamed.Name() != "other" || len(renamed.fields) != 0 {
		t.Errorf("WithName should reset fields, got %q %v", renamed.Name(), renamed.fields)
	}
}

func TestErrorWithErr(t *testing.T) {
	resetLevels(t)
	logger := GetLogger("errs")

	_, errs := captureOutput(t, func() {
		logger.ErrorWithErr("lookup of %q failed", errTest("boom"), "rag")
	})

	if !strings.Contains(errs, `lookup of "rag" failed - boom`) {
		t.Errorf("unexpected error output: %q", errs)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestFatalCallsExit(t *testing.T) {
	resetLevels(t)
	oldExit := exitFunc
	defer func() { exitFunc = oldExit }()

	var code int
	exitFunc = func(c int) { code = c }

	_, errs := captureOutput(t, func() {
		GetLogger("fatal").FatalWithFields("RAG_CORPUS is not set", Field("hint", "export RAG_CORPUS"))
	})

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errs, "[FATAL] fatal: RAG_CORPUS is not set | hint=export RAG_CORPUS") {
		t.Errorf("unexpected fatal output: %q", errs)
	}
}

func TestPackageLogLevels(t *testing.T) {
	resetLevels(t)
	_ = Initialize("info")
	if err := SetPackageLogLevels(map[string]string{
		"agent.*":           "debug",
		"agent.retrieval.*": "error",
		"config":            "warn",
	}); err != nil {
		t.Fatalf("SetPackageLogLevels: %v", err)
	}

	tests := []struct {
		name string
		want LogLevel
	}{
		{"agent.registry", DEBUG},
		{"agent.retrieval.cache", ERROR},
		{"config", WARN},
		{"configx", LogLevel(-1)},
		{"agent", LogLevel(-1)},
	}
	for _, tt := range tests {
		if got := GetPackageLogLevel(tt.name); got != tt.want {
			t.Errorf("GetPackageLogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	info, _ := captureOutput(t, func() {
		GetLogger("agent.registry").Debug("visible")
		GetLogger("config").Info("hidden")
	})
	if !strings.Contains(info, "visible") || strings.Contains(info, "hidden") {
		t.Errorf("package overrides not applied: %q", info)
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"graph.sync", "graph.sync", true},
		{"graph.sync", "graph.*", true},
		{"graph", "graph.*", false},
		{"controller", "graph.*", false},
	}
	for _, tt := range tests {
		if got := matchesPattern(tt.name, tt.pattern); got != tt.want {
			t.Errorf("matchesPattern(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	resetLevels(t)
	logger := GetLogger("concurrent")

	info, _ := captureOutput(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.WithField("n", n).Info("line")
			}(i)
		}
		wg.Wait()
	})

	if got := strings.Count(info, "\n"); got != 20 {
		t.Errorf("expected 20 lines, got %d", got)
	}
}
