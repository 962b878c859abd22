// Package attribute converts statement arguments to span attributes.
package attribute

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	argsKeyPrefix = "db.sql.args."

	maxStringValueLength = 256
	shortenedPattern     = "... (more than 256 chars)"
)

// FromArgs converts the arguments of a statement to attributes. A single map[string]any is taken as named arguments
// and yields one attribute per key, in key order. Otherwise, the arguments are positional and numbered from 1.
func FromArgs(args []any) []attribute.KeyValue {
	if len(args) == 1 {
		if named, ok := args[0].(map[string]any); ok {
			names := make([]string, 0, len(named))

			for name := range named {
				names = append(names, name)
			}

			sort.Strings(names)

			attrs := make([]attribute.KeyValue, 0, len(names))

			for _, name := range names {
				attrs = append(attrs, FromNamedArg(name, named[name]))
			}

			return attrs
		}
	}

	attrs := make([]attribute.KeyValue, 0, len(args))

	for i, arg := range args {
		attrs = append(attrs, FromArg(i+1, arg))
	}

	return attrs
}

// FromArg converts a positional argument to an attribute.
func FromArg(ordinal int, val any) attribute.KeyValue {
	return KeyValue(attribute.Key(argsKeyPrefix+strconv.Itoa(ordinal)), val)
}

// FromNamedArg converts a named argument to an attribute.
func FromNamedArg(name string, val any) attribute.KeyValue {
	return KeyValue(attribute.Key(argsKeyPrefix+name), val)
}

// KeyValue returns an attribute.KeyValue from a given value.
// nolint: cyclop
func KeyValue(key attribute.Key, val any) attribute.KeyValue {
	switch v := val.(type) {
	case nil:
		return key.String("")

	case int:
		return key.Int(v)

	case int32:
		return key.Int64(int64(v))

	case int64:
		return key.Int64(v)

	case float32:
		return key.Float64(float64(v))

	case float64:
		return key.Float64(v)

	case bool:
		return key.Bool(v)

	case []byte:
		return key.String(shortenString(string(v)))

	case string:
		return key.String(shortenString(v))

	case []int:
		return key.IntSlice(v)

	case []int64:
		return key.Int64Slice(v)

	case []float64:
		return key.Float64Slice(v)

	case []bool:
		return key.BoolSlice(v)

	case []string:
		return key.StringSlice(v)

	case time.Duration:
		return KeyValueDuration(key, v)

	case time.Time:
		return key.String(v.Format(time.RFC3339Nano))

	case driver.Valuer:
		if reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil() {
			return key.String("")
		}

		dv, err := v.Value()
		if err != nil {
			return key.String(shortenString(fmt.Sprintf("%v", v)))
		}

		return KeyValue(key, dv)
	}

	if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return key.String("")
		}

		return KeyValue(key, rv.Elem().Interface())
	}

	return key.String(shortenString(fmt.Sprintf("%v", val)))
}

// KeyValueDuration converts time.Duration to attribute.KeyValue.
func KeyValueDuration(key attribute.Key, d time.Duration) attribute.KeyValue {
	if time.Microsecond <= d && d < time.Millisecond {
		return key.String(strconv.FormatInt(d.Microseconds(), 10) + "us")
	}

	return key.String(d.String())
}

func shortenString(s string) string {
	runes := []rune(s)

	if len(runes) <= maxStringValueLength {
		return s
	}

	end := maxStringValueLength - len(shortenedPattern)
	sb := strings.Builder{}

	sb.Grow(maxStringValueLength)
	sb.WriteString(string(runes[:end]))
	sb.WriteString(shortenedPattern)

	return sb.String()
}
