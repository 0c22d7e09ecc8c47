package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"github.com/moolen/rfpagents/internal/agent/agentconfig"
	"github.com/moolen/rfpagents/internal/logging"
)

const tracerName = "github.com/moolen/rfpagents/internal/agent/retrieval"

// ToolArgs is the input schema of a retrieval tool.
type ToolArgs struct {
	// Query is the natural-language search text.
	Query string `json:"query"`
}

// ToolResult is the output schema of a retrieval tool.
type ToolResult struct {
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	Fragments []Fragment `json:"fragments"`
	Citations []string   `json:"citations,omitempty"`
}

// Option configures a retrieval tool.
type Option func(*retrievalTool)

// WithMetrics records tool activity on m.
func WithMetrics(m *Metrics) Option {
	return func(t *retrievalTool) { t.metrics = m }
}

// WithTracer overrides the tracer used for tool spans.
func WithTracer(tr trace.Tracer) Option {
	return func(t *retrievalTool) { t.tracer = tr }
}

type retrievalTool struct {
	cfg       agentconfig.Retrieval
	retriever Retriever
	metrics   *Metrics
	tracer    trace.Tracer
	logger    *logging.Logger
}

// NewTool wraps r in an ADK function tool named after cfg.ToolName.
func NewTool(cfg agentconfig.Retrieval, r Retriever, opts ...Option) (tool.Tool, error) {
	t, err := newRetrievalTool(cfg, r, opts...)
	if err != nil {
		return nil, err
	}

	return functiontool.New(functiontool.Config{
		Name:        cfg.ToolName,
		Description: cfg.ToolDescription,
	}, t.run)
}

func newRetrievalTool(cfg agentconfig.Retrieval, r Retriever, opts ...Option) (*retrievalTool, error) {
	if r == nil {
		return nil, fmt.Errorf("retrieval tool %s: retriever is nil", cfg.ToolName)
	}
	if cfg.ToolName == "" {
		return nil, fmt.Errorf("retrieval tool name is required")
	}

	t := &retrievalTool{
		cfg:       cfg,
		retriever: r,
		tracer:    otel.Tracer(tracerName),
		logger:    logging.GetLogger("retrieval").WithField("tool", cfg.ToolName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// run reports failures through the result so the model can react to them.
func (t *retrievalTool) run(ctx tool.Context, args ToolArgs) (ToolResult, error) {
	fragments, err := t.retrieve(ctx, args.Query)
	if err != nil {
		return ToolResult{Status: "error", Message: err.Error()}, nil
	}
	return ToolResult{
		Status:    "success",
		Fragments: fragments,
		Citations: Citations(fragments),
	}, nil
}

func (t *retrievalTool) retrieve(ctx context.Context, text string) ([]Fragment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		t.metrics.recordError(t.cfg.ToolName)
		return nil, ErrEmptyQuery
	}

	ctx, span := t.tracer.Start(ctx, "retrieval.query", trace.WithAttributes(
		attribute.String("retrieval.tool", t.cfg.ToolName),
		attribute.String("retrieval.corpus", t.cfg.Corpus),
		attribute.Int("retrieval.top_k", t.cfg.SimilarityTopK),
		attribute.Float64("retrieval.distance_threshold", t.cfg.VectorDistanceThreshold),
	))
	defer span.End()
	logger := t.logger.WithContext(ctx)

	start := time.Now()
	fragments, err := t.retriever.Retrieve(ctx, Query{
		Text:              text,
		TopK:              t.cfg.SimilarityTopK,
		DistanceThreshold: t.cfg.VectorDistanceThreshold,
	})
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.metrics.recordError(t.cfg.ToolName)
		logger.ErrorWithErr("Retrieval failed", err)
		return nil, fmt.Errorf("%s: %w", t.cfg.ToolName, err)
	}

	fragments = Filter(fragments, t.cfg.SimilarityTopK, t.cfg.VectorDistanceThreshold)
	span.SetAttributes(attribute.Int("retrieval.fragments", len(fragments)))
	t.metrics.recordQuery(t.cfg.ToolName, len(fragments), elapsed)
	logger.DebugWithFields("Retrieved fragments",
		logging.Field("count", len(fragments)),
		logging.Field("elapsed", elapsed))

	return fragments, nil
}
