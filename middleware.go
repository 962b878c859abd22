package otelcursor

import "context"

type middleware[T any] func(next T) T

// chainMiddlewares builds an inline middleware stack in the order they are passed.
func chainMiddlewares[T any](middlewares []middleware[T], last T) T {
	if len(middlewares) == 0 {
		return last
	}

	h := middlewares[len(middlewares)-1](last)

	for i := len(middlewares) - 2; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}

// cursorCall holds the arguments of a cursor method.
type cursorCall struct {
	query   any
	args    []any
	argsSeq [][]any

	// interpolate tells whether args are substituted into the statement text of the span.
	interpolate bool
}

type cursorFunc func(ctx context.Context, call cursorCall) error

type cursorFuncMiddleware = middleware[cursorFunc]

type connectFunc func(ctx context.Context) error

type connectFuncMiddleware = middleware[connectFunc]
