package trace_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.nhat.io/otelcursor"
	"go.nhat.io/otelcursor/dbapi"
	"go.nhat.io/otelcursor/internal/test/oteltest"
	"go.nhat.io/otelcursor/internal/test/sqlmock"
	xtrace "go.nhat.io/otelcursor/x/trace"
)

func TestSpanName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario string
		option   otelcursor.Option
		expected []string
	}{
		{
			scenario: "transform",
			option:   xtrace.TransformSpanName(strings.ToLower),
			expected: []string{"connect", "delete"},
		},
		{
			scenario: "prefix",
			option:   xtrace.PrefixSpanName("sql:"),
			expected: []string{"sql:connect", "sql:DELETE"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			oteltest.New(
				oteltest.MockDatabase(func(m sqlmock.Sqlmock) {
					m.ExpectPing()
					m.ExpectQuery("DELETE FROM data WHERE country = $1").
						WithArgs("US").
						WillReturnRows(sqlmock.NewRows(nil))
				}),
				oteltest.TracesMatch(func(t assert.TestingT, actual []oteltest.Span) bool {
					names := make([]string, 0, len(actual))

					for _, s := range actual {
						names = append(names, s.Name)
					}

					return assert.Equal(t, tc.expected, names)
				}),
			).Run(t, func(sc oteltest.SuiteContext) {
				client := dbapi.NewClient()

				otelcursor.NewInstrumentor(client,
					otelcursor.WithTracerProvider(sc.TracerProvider()),
					otelcursor.WithMeterProvider(sc.MeterProvider()),
					tc.option,
				).Instrument()

				conn, err := client.Connect(context.Background(), sc.DatabaseDSN(), dbapi.WithDriverName(sqlmock.DriverName))
				require.NoError(t, err)

				defer conn.Close() // nolint: errcheck

				cur := conn.Cursor()
				defer cur.Close() // nolint: errcheck

				err = cur.Execute(context.Background(), "DELETE FROM data WHERE country = %s", "US")
				require.NoError(t, err)
			})
		})
	}
}
