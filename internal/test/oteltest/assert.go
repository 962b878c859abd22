package oteltest

import (
	"github.com/stretchr/testify/assert"
	"github.com/swaggest/assertjson"
)

// AssertFunc asserts the collected telemetry, serialized as JSON. Nothing collected is an empty string.
type AssertFunc func(t assert.TestingT, actual string, msgAndArgs ...any) bool

func equalJSON(expect string) AssertFunc {
	return func(t assert.TestingT, actual string, msgAndArgs ...any) bool {
		return assertjson.Equal(t, []byte(expect), []byte(actual), msgAndArgs...)
	}
}

func empty() AssertFunc {
	return func(t assert.TestingT, actual string, msgAndArgs ...any) bool {
		return assert.Empty(t, actual, msgAndArgs...)
	}
}

func chainAsserters(fs ...AssertFunc) AssertFunc {
	return func(t assert.TestingT, actual string, msgAndArgs ...any) bool {
		for _, f := range fs {
			if !f(t, actual, msgAndArgs...) {
				return false
			}
		}

		return true
	}
}
