// Package trace provides span naming helpers for otelcursor.
package trace

import (
	"context"

	"go.nhat.io/otelcursor"
)

// TransformSpanName names the spans by transforming the operation, for example SELECT.
//
//	trace.TransformSpanName(strings.ToLower)
func TransformSpanName(transform func(op string) string) otelcursor.Option {
	return otelcursor.WithSpanNameFormatter(func(_ context.Context, op string) string {
		return transform(op)
	})
}

// PrefixSpanName prepends a prefix to the name of every span.
//
//	trace.PrefixSpanName("sql:")
func PrefixSpanName(prefix string) otelcursor.Option {
	return TransformSpanName(func(op string) string {
		return prefix + op
	})
}
