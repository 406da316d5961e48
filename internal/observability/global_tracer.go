package observability

import (
	"context"
	"fmt"

	contextutils "spotfinder/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "spotfinder"

var globalTracer trace.Tracer

// InitGlobalTracer initializes the global tracer for the application.
func InitGlobalTracer() {
	globalTracer = otel.Tracer(tracerName)
}

// GetGlobalTracer returns the global tracer instance for the application.
func GetGlobalTracer() trace.Tracer {
	if globalTracer == nil {
		globalTracer = otel.Tracer(tracerName)
	}
	return globalTracer
}

// TraceFunction starts a new span named "<component>.<function>".
func TraceFunction(ctx context.Context, component, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("%s.%s", component, functionName)
	return GetGlobalTracer().Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// TraceAPIFunction starts a span for a study spot backend call.
func TraceAPIFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "api", functionName, attributes...)
}

// TraceHandlerFunction starts a new span for a handler function.
func TraceHandlerFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "handler", functionName, attributes...)
}

// TraceSurveyFunction starts a span for survey submission.
func TraceSurveyFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "survey", functionName, attributes...)
}

// TraceDashboardFunction starts a span for dashboard loading.
func TraceDashboardFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "dashboard", functionName, attributes...)
}

// TraceDetailFunction starts a span for detail view work (reviews).
func TraceDetailFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "detail", functionName, attributes...)
}

// FinishSpan ends a span and records any error pointed to by errPtr, tagged with its error code.
// Use with a named error return: `defer observability.FinishSpan(span, &err)`
func FinishSpan(span trace.Span, errPtr *error) {
	if span == nil {
		return
	}
	if errPtr != nil && *errPtr != nil {
		span.SetAttributes(attribute.String("error.code", string(contextutils.GetErrorCode(*errPtr))))
		span.RecordError(*errPtr)
		span.SetStatus(codes.Error, (*errPtr).Error())
	}
	span.End()
}

// AttributeSpotID returns a tracing attribute for a study spot ID.
func AttributeSpotID(id int) attribute.KeyValue {
	return attribute.Int("spot.id", id)
}

// AttributeSpotCount returns a tracing attribute for the number of spots in a result.
func AttributeSpotCount(n int) attribute.KeyValue {
	return attribute.Int("spot.count", n)
}

// AttributeStatusCode returns a tracing attribute for a backend HTTP status.
func AttributeStatusCode(code int) attribute.KeyValue {
	return attribute.Int("backend.status_code", code)
}

// AttributeSortKey returns a tracing attribute for the dashboard sort key.
func AttributeSortKey(key string) attribute.KeyValue {
	return attribute.String("dashboard.sort", key)
}

// AttributeHasPreferences returns a tracing attribute recording whether survey answers exist.
func AttributeHasPreferences(has bool) attribute.KeyValue {
	return attribute.Bool("survey.has_preferences", has)
}
