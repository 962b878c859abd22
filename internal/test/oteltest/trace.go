package oteltest

import (
	"encoding/json"

	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SampleTraceID is a sample of trace id.
var SampleTraceID = MustParseTraceID("25239e8a2ad5562d561f2ecd6a9744de")

// MustParseTraceID parse a string to trace id.
func MustParseTraceID(s string) trace.TraceID {
	r, err := trace.TraceIDFromHex(s)
	handleErr(err)

	return r
}

// SampleSpanID is a sample of span id.
var SampleSpanID = MustParseSpanID("1d256548fd1a0dba")

// MustParseSpanID parse a string to span id.
func MustParseSpanID(s string) trace.SpanID {
	r, err := trace.SpanIDFromHex(s)
	handleErr(err)

	return r
}

// Span is the summary of an ended span.
type Span struct {
	Name         string         `json:"Name"`
	SpanKind     string         `json:"SpanKind"`
	TraceID      string         `json:"TraceID,omitempty"`
	ParentSpanID string         `json:"ParentSpanID,omitempty"`
	Status       SpanStatus     `json:"Status"`
	Attributes   map[string]any `json:"Attributes"`
	Events       []string       `json:"Events,omitempty"`
}

// SpanStatus is the status of a span.
type SpanStatus struct {
	Code        string `json:"Code"`
	Description string `json:"Description"`
}

func spanFromReadOnly(s tracesdk.ReadOnlySpan) Span {
	attrs := make(map[string]any, len(s.Attributes()))

	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}

	span := Span{
		Name:       s.Name(),
		SpanKind:   s.SpanKind().String(),
		Status:     SpanStatus{Code: s.Status().Code.String(), Description: s.Status().Description},
		Attributes: attrs,
	}

	if p := s.Parent(); p.IsValid() {
		span.TraceID = p.TraceID().String()
		span.ParentSpanID = p.SpanID().String()
	}

	for _, e := range s.Events() {
		span.Events = append(span.Events, e.Name)
	}

	return span
}

func encodeSpans(spans []tracesdk.ReadOnlySpan) string {
	if len(spans) == 0 {
		return ""
	}

	result := make([]Span, 0, len(spans))

	for _, s := range spans {
		result = append(result, spanFromReadOnly(s))
	}

	data, err := json.MarshalIndent(result, "", "    ")
	handleErr(err)

	return string(data)
}
