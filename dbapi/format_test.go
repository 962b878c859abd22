package dbapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nhat.io/otelcursor/dbapi"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario      string
		text          string
		args          []any
		expected      string
		expectedError bool
	}{
		{
			scenario: "no args keeps percent signs",
			text:     "SELECT '100%'",
			expected: "SELECT '100%'",
		},
		{
			scenario: "integer",
			text:     "INSERT INTO test (testField) VALUES (%s)",
			args:     []any{123},
			expected: "INSERT INTO test (testField) VALUES (123)",
		},
		{
			scenario: "string and null",
			text:     "UPDATE users SET name = %s, email = %s",
			args:     []any{"O'Hara", nil},
			expected: "UPDATE users SET name = 'O''Hara', email = NULL",
		},
		{
			scenario: "named",
			text:     "SELECT * FROM users WHERE id = %(id)s OR parent = %(id)s",
			args:     []any{map[string]any{"id": 7}},
			expected: "SELECT * FROM users WHERE id = 7 OR parent = 7",
		},
		{
			scenario: "escaped percent with args",
			text:     "SELECT * FROM t WHERE a LIKE '10%%' AND b = %s",
			args:     []any{true},
			expected: "SELECT * FROM t WHERE a LIKE '10%' AND b = true",
		},
		{
			scenario:      "literal percent with args",
			text:          "SELECT * FROM t WHERE a LIKE '10%' AND b = %s",
			args:          []any{1},
			expectedError: true,
		},
		{
			scenario:      "too many args",
			text:          "SELECT %s",
			args:          []any{1, 2},
			expectedError: true,
		},
		{
			scenario:      "named without map",
			text:          "SELECT %(id)s",
			args:          []any{1},
			expectedError: true,
		},
		{
			scenario:      "missing name",
			text:          "SELECT %(id)s",
			args:          []any{map[string]any{"name": 1}},
			expectedError: true,
		},
		{
			scenario:      "mixed placeholders",
			text:          "SELECT %(id)s, %s",
			args:          []any{map[string]any{"id": 1}},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			actual, err := dbapi.Interpolate(tc.text, tc.args, &dbapi.BaseCursor{})

			if tc.expectedError {
				assert.ErrorIs(t, err, dbapi.ErrFormat)
				assert.Empty(t, actual)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario      string
		text          string
		args          []any
		expectedQuery string
		expectedArgs  []any
	}{
		{
			scenario:      "no args",
			text:          "SELECT '100%'",
			expectedQuery: "SELECT '100%'",
		},
		{
			scenario:      "positional",
			text:          "INSERT INTO t (a, b) VALUES (%s, %s)",
			args:          []any{1, "x"},
			expectedQuery: "INSERT INTO t (a, b) VALUES ($1, $2)",
			expectedArgs:  []any{1, "x"},
		},
		{
			scenario:      "named reused",
			text:          "SELECT * FROM t WHERE a = %(a)s AND b = %(b)s OR c = %(a)s",
			args:          []any{map[string]any{"a": 1, "b": 2}},
			expectedQuery: "SELECT * FROM t WHERE a = $1 AND b = $2 OR c = $1",
			expectedArgs:  []any{1, 2},
		},
		{
			scenario:      "escaped percent",
			text:          "SELECT * FROM t WHERE a LIKE 'x%%' AND b = %s",
			args:          []any{1},
			expectedQuery: "SELECT * FROM t WHERE a LIKE 'x%' AND b = $1",
			expectedArgs:  []any{1},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			query, args, err := dbapi.Rebind(tc.text, tc.args)

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedQuery, query)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestRebind_Error(t *testing.T) {
	t.Parallel()

	query, args, err := dbapi.Rebind("SELECT %d", []any{1})

	assert.ErrorIs(t, err, dbapi.ErrFormat)
	assert.Empty(t, query)
	assert.Nil(t, args)
}
