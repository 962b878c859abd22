package dbapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario       string
		text           string
		expectedTokens []formatToken
		expectedError  string
	}{
		{
			scenario:       "no placeholder",
			text:           "SELECT 1",
			expectedTokens: []formatToken{{text: "SELECT 1"}},
		},
		{
			scenario: "positional",
			text:     "VALUES (%s, %s)",
			expectedTokens: []formatToken{
				{text: "VALUES ("},
				{placeholder: true},
				{text: ", "},
				{placeholder: true},
				{text: ")"},
			},
		},
		{
			scenario: "named",
			text:     "id = %(id)s",
			expectedTokens: []formatToken{
				{text: "id = "},
				{placeholder: true, name: "id"},
			},
		},
		{
			scenario:       "escaped percent",
			text:           "LIKE '100%%'",
			expectedTokens: []formatToken{{text: "LIKE '100%'"}},
		},
		{
			scenario:      "trailing percent",
			text:          "LIKE 'a%",
			expectedError: "dbapi: invalid statement format: incomplete placeholder at position 7",
		},
		{
			scenario:      "unsupported character",
			text:          "LIKE 'a%b'",
			expectedError: "dbapi: invalid statement format: unsupported format character 'b' at position 8",
		},
		{
			scenario:      "unterminated name",
			text:          "id = %(id",
			expectedError: "dbapi: invalid statement format: malformed named placeholder at position 5",
		},
		{
			scenario:      "name without s",
			text:          "id = %(id)d",
			expectedError: "dbapi: invalid statement format: malformed named placeholder at position 5",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			tokens, err := parseFormat(tc.text)

			if tc.expectedError == "" {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedTokens, tokens)
			} else {
				assert.ErrorIs(t, err, ErrFormat)
				assert.EqualError(t, err, tc.expectedError)
			}
		})
	}
}
