package otelcursor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"go.nhat.io/otelcursor/dbapi"
	"go.nhat.io/otelcursor/internal/test/oteltest"
)

func TestNewIntegration_MeterError(t *testing.T) {
	t.Parallel()

	in := newIntegration(newOptions(WithMeterProvider(oteltest.NewMeterProviderWithError(assert.AnError))))

	assert.NotPanics(t, func() {
		in.recorder.Record(context.Background(), metricMethodExecute)(nil)
	})
}

func TestSession_Bind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario      string
		info          dbapi.ConnInfo
		expectedAttrs []attribute.KeyValue
		expectedName  string
	}{
		{
			scenario:     "no info",
			expectedName: "postgresql",
		},
		{
			scenario: "full info",
			info:     dbapi.ConnInfo{DBName: "shop", Host: "db.local", Port: 5433, User: "alice"},
			expectedAttrs: []attribute.KeyValue{
				semconv.DBNameKey.String("shop"),
				semconv.NetPeerNameKey.String("db.local"),
				semconv.NetPeerPortKey.Int(5433),
				semconv.DBUserKey.String("alice"),
			},
			expectedName: "shop",
		},
		{
			scenario: "host only",
			info:     dbapi.ConnInfo{Host: "db.local"},
			expectedAttrs: []attribute.KeyValue{
				semconv.NetPeerNameKey.String("db.local"),
			},
			expectedName: "postgresql",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			s := newSession(newIntegration(newOptions()))

			s.bind(dbapi.NewConn(nil, tc.info, nil))
			s.bind(dbapi.NewConn(nil, dbapi.ConnInfo{DBName: "other"}, nil))

			assert.Equal(t, tc.expectedAttrs, s.connectionAttributesOf())
			assert.Equal(t, tc.expectedName, s.spanName(""))
			assert.Equal(t, "SELECT", s.spanName("SELECT"))
		})
	}
}
