package otelcursor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nhat.io/otelcursor"
)

func TestStatementContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, otelcursor.StatementFromContext(context.Background()))

	ctx := otelcursor.ContextWithStatement(context.Background(), "SELECT 1")

	assert.Equal(t, "SELECT 1", otelcursor.StatementFromContext(ctx))
}
