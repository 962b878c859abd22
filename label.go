package otelcursor

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
)

// Labeler collects attributes to be added to the spans or the metrics of the statements run with a context.
type Labeler struct {
	mu         sync.Mutex
	attributes []attribute.KeyValue
}

// Add attributes to a Labeler.
func (l *Labeler) Add(ls ...attribute.KeyValue) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attributes = append(l.attributes, ls...)
}

// Get returns a copy of the attributes added to the Labeler.
func (l *Labeler) Get() []attribute.KeyValue {
	l.mu.Lock()
	defer l.mu.Unlock()

	ret := make([]attribute.KeyValue, len(l.attributes))
	copy(ret, l.attributes)

	return ret
}

type labelerContextKey string

const (
	labelerCtxMetrics = labelerContextKey("metrics")
	labelerCtxTrace   = labelerContextKey("trace")
)

// MetricsLabelsFromContext retrieves the metrics labels from the provided context.
func MetricsLabelsFromContext(ctx context.Context) []attribute.KeyValue {
	return labelsFromContext(ctx, labelerCtxMetrics)
}

// ContextWithMetricsLabels returns a new context whose statements record metrics with the labels.
func ContextWithMetricsLabels(ctx context.Context, labels ...attribute.KeyValue) context.Context {
	return contextWithLabels(ctx, labelerCtxMetrics, labels...)
}

// TraceLabelsFromContext retrieves the trace labels from the provided context.
func TraceLabelsFromContext(ctx context.Context) []attribute.KeyValue {
	return labelsFromContext(ctx, labelerCtxTrace)
}

// ContextWithTraceLabels returns a new context whose statements create spans with the labels.
func ContextWithTraceLabels(ctx context.Context, labels ...attribute.KeyValue) context.Context {
	return contextWithLabels(ctx, labelerCtxTrace, labels...)
}

// ContextWithTraceAndMetricsLabels returns a new context with both the trace and the metrics labels.
func ContextWithTraceAndMetricsLabels(ctx context.Context, labels ...attribute.KeyValue) context.Context {
	ctx = ContextWithMetricsLabels(ctx, labels...)
	ctx = ContextWithTraceLabels(ctx, labels...)

	return ctx
}

func labelsFromContext(ctx context.Context, key labelerContextKey) []attribute.KeyValue {
	l, ok := ctx.Value(key).(*Labeler)
	if !ok {
		return nil
	}

	return l.Get()
}

// contextWithLabels copies the labels of the parent so that siblings do not see each other's labels.
func contextWithLabels(ctx context.Context, key labelerContextKey, labels ...attribute.KeyValue) context.Context {
	l := &Labeler{attributes: labelsFromContext(ctx, key)}

	l.Add(labels...)

	return context.WithValue(ctx, key, l)
}
