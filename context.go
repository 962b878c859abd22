package otelcursor

import "context"

type statementCtxKey struct{}

// StatementFromContext gets the display text of the statement being executed.
func StatementFromContext(ctx context.Context) string {
	stmt, ok := ctx.Value(statementCtxKey{}).(string)
	if !ok {
		return ""
	}

	return stmt
}

// ContextWithStatement attaches the display text of a statement to the parent context.
func ContextWithStatement(ctx context.Context, stmt string) context.Context {
	return context.WithValue(ctx, statementCtxKey{}, stmt)
}
