package otelcursor

import (
	"strings"

	"go.uber.org/zap"

	"go.nhat.io/otelcursor/dbapi"
)

type statementKind int

const (
	statementUnknown statementKind = iota
	statementRawText
	statementComposed
)

// resolvedStatement is the text of a query, tagged with where it comes from.
type resolvedStatement struct {
	kind statementKind
	text string
}

// resolveStatement renders the query with r. Anything that is neither text nor a composed statement, or a composed
// statement that fails to render, is unknown.
func resolveStatement(r dbapi.Renderer, query any) resolvedStatement {
	switch q := query.(type) {
	case string:
		return resolvedStatement{kind: statementRawText, text: q}

	case dbapi.Composable:
		if r == nil {
			return resolvedStatement{kind: statementUnknown}
		}

		text, err := q.AsString(r)
		if err != nil {
			return resolvedStatement{kind: statementUnknown}
		}

		return resolvedStatement{kind: statementComposed, text: text}
	}

	return resolvedStatement{kind: statementUnknown}
}

// operationName returns the first word of the statement, as written.
func operationName(r dbapi.Renderer, query any) string {
	stmt := resolveStatement(r, query)
	if stmt.kind == statementUnknown {
		return ""
	}

	fields := strings.Fields(stmt.text)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// statementText returns the statement with the arguments substituted for display. When the arguments do not fit the
// statement, the statement is returned without substitution.
func statementText(r dbapi.Renderer, query any, args []any, logger *zap.Logger) string {
	stmt := resolveStatement(r, query)
	if stmt.kind == statementUnknown {
		return ""
	}

	if len(args) == 0 || r == nil {
		return stmt.text
	}

	text, err := dbapi.Interpolate(stmt.text, args, r)
	if err != nil {
		logger.Debug("could not substitute statement arguments",
			zap.String("statement", stmt.text),
			zap.Error(err),
		)

		return stmt.text
	}

	return text
}
