package dbapi

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

func quoteIdentifier(parts ...string) string {
	quoted := make([]string, len(parts))

	for i, p := range parts {
		quoted[i] = pq.QuoteIdentifier(p)
	}

	return strings.Join(quoted, ".")
}

// nolint: cyclop
func quoteLiteral(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil

	case driver.Valuer:
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL", nil
		}

		dv, err := val.Value()
		if err != nil {
			return "", err
		}

		return quoteLiteral(dv)

	case string:
		return pq.QuoteLiteral(val), nil

	case []byte:
		return `'\x` + hex.EncodeToString(val) + `'::bytea`, nil

	case bool:
		return strconv.FormatBool(val), nil

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil

	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil

	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil

	case time.Time:
		return pq.QuoteLiteral(val.Format(time.RFC3339Nano)), nil

	case fmt.Stringer:
		return pq.QuoteLiteral(val.String()), nil
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "NULL", nil
		}

		return quoteLiteral(rv.Elem().Interface())
	}

	return pq.QuoteLiteral(fmt.Sprintf("%v", v)), nil
}
