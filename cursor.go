package otelcursor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	xattr "go.nhat.io/otelcursor/attribute"
	"go.nhat.io/otelcursor/dbapi"
)

var _ dbapi.Cursor = (*tracedCursor)(nil)

// tracedCursor traces Execute, ExecuteMany and CallProc of the cursor it wraps. The other methods are served by the
// wrapped cursor.
type tracedCursor struct {
	dbapi.Cursor

	execute     cursorFunc
	executeMany cursorFunc
	callProc    cursorFunc
}

// Execute executes a statement.
func (c *tracedCursor) Execute(ctx context.Context, query any, args ...any) error {
	return c.execute(ctx, cursorCall{query: query, args: args, interpolate: true})
}

// ExecuteMany executes a statement once for every set of arguments.
func (c *tracedCursor) ExecuteMany(ctx context.Context, query any, argsSeq [][]any) error {
	return c.executeMany(ctx, cursorCall{query: query, argsSeq: argsSeq})
}

// CallProc calls a stored procedure.
func (c *tracedCursor) CallProc(ctx context.Context, name string, args ...any) error {
	return c.callProc(ctx, cursorCall{query: name, args: args})
}

// Unwrap returns the wrapped cursor.
func (c *tracedCursor) Unwrap() dbapi.Cursor {
	return c.Cursor
}

func newTracedCursor(s *session, base dbapi.Cursor) *tracedCursor {
	wrap := func(method string, last cursorFunc) cursorFunc {
		return chainMiddlewares([]cursorFuncMiddleware{
			cursorStats(s.recorder, method),
			cursorTrace(s, base),
		}, last)
	}

	return &tracedCursor{
		Cursor: base,
		execute: wrap(metricMethodExecute, func(ctx context.Context, call cursorCall) error {
			return base.Execute(ctx, call.query, call.args...)
		}),
		executeMany: wrap(metricMethodExecuteMany, func(ctx context.Context, call cursorCall) error {
			return base.ExecuteMany(ctx, call.query, call.argsSeq)
		}),
		callProc: wrap(metricMethodCallProc, func(ctx context.Context, call cursorCall) error {
			return base.CallProc(ctx, call.query.(string), call.args...) // nolint: forcetypeassert
		}),
	}
}

// newCursorFactory returns a factory of traced cursors wrapping the cursors of base. A nil base means
// dbapi.NewCursor.
func newCursorFactory(s *session, base dbapi.CursorFactory) dbapi.CursorFactory {
	if base == nil {
		base = dbapi.NewCursor
	}

	return func(conn *dbapi.Conn) dbapi.Cursor {
		s.bind(conn)

		return newTracedCursor(s, base(conn))
	}
}

func cursorStats(r methodRecorder, method string) cursorFuncMiddleware {
	return func(next cursorFunc) cursorFunc {
		return func(ctx context.Context, call cursorCall) error {
			end := r.Record(ctx, method)

			err := next(ctx, call)

			end(err)

			return err
		}
	}
}

func cursorTrace(s *session, r dbapi.Renderer) cursorFuncMiddleware {
	return func(next cursorFunc) cursorFunc {
		return func(ctx context.Context, call cursorCall) error {
			op := operationName(r, call.query)

			var args []any

			if call.interpolate {
				args = call.args
			}

			stmt := statementText(r, call.query, args, s.logger)
			connAttrs := s.connectionAttributesOf()

			attrs := make([]attribute.KeyValue, 0, len(connAttrs)+len(call.args)+2)
			attrs = append(attrs, connAttrs...)
			attrs = append(attrs,
				semconv.DBOperationKey.String(op),
				semconv.DBStatementKey.String(stmt),
			)

			if s.traceArgs && len(call.args) > 0 {
				attrs = append(attrs, xattr.FromArgs(call.args)...)
			}

			ctx, end := s.tracer.Trace(ctx, s.spanName(op), attrs...)
			ctx = ContextWithStatement(ctx, stmt)

			err := next(ctx, call)

			end(err)

			return err
		}
	}
}
