package oteltest

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// BackgroundWithSpanContext creates a new context.Background carrying a remote span with the trace id and span id.
func BackgroundWithSpanContext(traceID trace.TraceID, spanID trace.SpanID) context.Context {
	return trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
}

// BackgroundWithSampleSpan creates a new context.Background carrying a remote span with SampleTraceID and
// SampleSpanID.
func BackgroundWithSampleSpan() context.Context {
	return BackgroundWithSpanContext(SampleTraceID, SampleSpanID)
}
