package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// extractContextFields returns the trace_id and span_id of the span active in
// ctx, or nil when ctx carries no valid span context.
func extractContextFields(ctx context.Context) map[string]interface{} {
	if ctx == nil {
		return nil
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return map[string]interface{}{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	}
}
