package dbapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.nhat.io/otelcursor/dbapi"
)

func TestComposed_AsString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario string
		query    dbapi.Composable
		expected string
	}{
		{
			scenario: "sql",
			query:    dbapi.SQL("SELECT 1"),
			expected: "SELECT 1",
		},
		{
			scenario: "qualified identifier",
			query:    dbapi.Identifier{"public", "user table"},
			expected: `"public"."user table"`,
		},
		{
			scenario: "literal",
			query:    dbapi.Literal{Value: "it's"},
			expected: `'it''s'`,
		},
		{
			scenario: "positional placeholder",
			query:    dbapi.Placeholder(""),
			expected: "%s",
		},
		{
			scenario: "named placeholder",
			query:    dbapi.Placeholder("id"),
			expected: "%(id)s",
		},
		{
			scenario: "joined",
			query:    dbapi.SQL(", ").Join(dbapi.Identifier{"a"}, dbapi.Identifier{"b"}),
			expected: `"a", "b"`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			actual, err := tc.query.AsString(&dbapi.BaseCursor{})

			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestSQL_Format(t *testing.T) {
	t.Parallel()

	q, err := dbapi.SQL("INSERT INTO {} ({}) VALUES ({})").Format(
		dbapi.Identifier{"test"},
		dbapi.Identifier{"testField"},
		dbapi.Placeholder(""),
	)
	require.NoError(t, err)

	actual, err := q.AsString(&dbapi.BaseCursor{})
	require.NoError(t, err)

	expected := `INSERT INTO "test" ("testField") VALUES (%s)`

	assert.Equal(t, expected, actual)
}

func TestSQL_Format_Numbered(t *testing.T) {
	t.Parallel()

	q, err := dbapi.SQL("SELECT {1} FROM {0} WHERE {{x}}").Format(dbapi.Identifier{"t"}, dbapi.SQL("*"))
	require.NoError(t, err)

	actual, err := q.AsString(&dbapi.BaseCursor{})
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "t" WHERE {x}`, actual)
}

func TestSQL_Format_Error(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario string
		format   dbapi.SQL
		args     []dbapi.Composable
	}{
		{scenario: "out of range", format: "SELECT {}"},
		{scenario: "unterminated", format: "SELECT {", args: []dbapi.Composable{dbapi.SQL("1")}},
		{scenario: "single closing brace", format: "SELECT }"},
		{scenario: "automatic then manual numbering", format: "{} {0}", args: []dbapi.Composable{dbapi.SQL("1")}},
		{scenario: "manual then automatic numbering", format: "{0} {}", args: []dbapi.Composable{dbapi.SQL("1")}},
		{scenario: "invalid field", format: "{x}", args: []dbapi.Composable{dbapi.SQL("1")}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			q, err := tc.format.Format(tc.args...)

			assert.Nil(t, q)
			assert.ErrorIs(t, err, dbapi.ErrFormat)
		})
	}
}

func TestIdentifier_Empty(t *testing.T) {
	t.Parallel()

	_, err := dbapi.Identifier{}.AsString(&dbapi.BaseCursor{})

	assert.ErrorIs(t, err, dbapi.ErrFormat)
}
