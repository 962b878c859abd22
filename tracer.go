package otelcursor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type spanNameFormatter func(ctx context.Context, op string) string

type errorToSpanStatus func(err error) (codes.Code, string)

// methodTracer traces a cursor or connection method.
type methodTracer interface {
	Trace(ctx context.Context, op string, labels ...attribute.KeyValue) (context.Context, func(err error, attrs ...attribute.KeyValue))
}

type methodTracerImpl struct {
	tracer trace.Tracer

	formatSpanName spanNameFormatter
	errorToStatus  errorToSpanStatus
	attributes     []attribute.KeyValue
}

// Trace starts a client span. The returned function ends it and must be called exactly once.
func (t *methodTracerImpl) Trace(ctx context.Context, op string, labels ...attribute.KeyValue) (context.Context, func(err error, attrs ...attribute.KeyValue)) {
	ctx, span := t.tracer.Start(ctx, t.formatSpanName(ctx, op),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	ctxLabels := TraceLabelsFromContext(ctx)
	attrs := make([]attribute.KeyValue, 0, len(t.attributes)+len(labels)+len(ctxLabels))

	attrs = append(attrs, t.attributes...)
	attrs = append(attrs, labels...)
	attrs = append(attrs, ctxLabels...)

	return ctx, func(err error, labels ...attribute.KeyValue) {
		code, desc := t.errorToStatus(err)

		attrs = append(attrs, labels...)

		span.SetAttributes(attrs...)
		span.SetStatus(code, desc)

		if code == codes.Error && err != nil {
			span.RecordError(err)
		}

		span.End()
	}
}

func newMethodTracer(tracer trace.Tracer, opts ...func(t *methodTracerImpl)) *methodTracerImpl {
	t := &methodTracerImpl{
		tracer:         tracer,
		formatSpanName: formatSpanName,
		errorToStatus:  spanStatusFromError,
	}

	for _, o := range opts {
		o(t)
	}

	return t
}

func traceWithDefaultAttributes(attrs ...attribute.KeyValue) func(t *methodTracerImpl) {
	return func(t *methodTracerImpl) {
		t.attributes = append(t.attributes, attrs...)
	}
}

func traceWithSpanNameFormatter(f spanNameFormatter) func(t *methodTracerImpl) {
	return func(t *methodTracerImpl) {
		if f != nil {
			t.formatSpanName = f
		}
	}
}

func traceWithErrorToSpanStatus(f errorToSpanStatus) func(t *methodTracerImpl) {
	return func(t *methodTracerImpl) {
		if f != nil {
			t.errorToStatus = f
		}
	}
}

func formatSpanName(_ context.Context, op string) string {
	return op
}

func spanStatusFromError(err error) (codes.Code, string) {
	if err == nil {
		return codes.Ok, ""
	}

	return codes.Error, err.Error()
}
