// Package oteltest runs tests against in-memory tracer and meter providers and asserts what they collected.
package oteltest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"

	"go.nhat.io/otelcursor/internal/test/sqlmock"
)

// Suite is a test suite.
type Suite interface {
	Run(t *testing.T, f func(sc SuiteContext))
}

// SuiteContext represents a test suite context.
type SuiteContext interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider
	DatabaseDSN() string
}

type suiteContext struct {
	test testing.TB

	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider

	sqlMocker sqlmock.Sqlmocker
}

// TracerProvider provides access to instrumentation Tracers.
func (s *suiteContext) TracerProvider() trace.TracerProvider {
	return s.tracerProvider
}

// MeterProvider supports named Meter instances.
func (s *suiteContext) MeterProvider() metric.MeterProvider {
	return s.meterProvider
}

// DatabaseDSN returns the dsn of a new sqlmock instance, to be used with the sqlmock driver.
func (s *suiteContext) DatabaseDSN() string {
	return s.sqlMocker(s.test)
}

// SuiteOption setups the test suite.
type SuiteOption func(c *suiteConfig)

type suiteConfig struct {
	assertTracesFuncs  []AssertFunc
	assertMetricsFuncs []AssertFunc

	sqlMocks []func(m sqlmock.Sqlmock)
}

type suite struct {
	config suiteConfig
}

// Run creates new providers, runs the test and asserts the collected telemetry.
func (s *suite) Run(t *testing.T, f func(sc SuiteContext)) {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	reader := metricsdk.NewManualReader()

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		tracesdk.WithSpanProcessor(spans),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL, semconv.ServiceNameKey.String("oteltest"),
		)),
	)

	mp := metricsdk.NewMeterProvider(
		metricsdk.WithReader(reader),
		metricsdk.WithResource(resource.NewSchemaless(
			semconv.ServiceNameKey.String("oteltest"),
		)),
	)

	f(&suiteContext{
		test:           t,
		tracerProvider: tp,
		meterProvider:  mp,
		sqlMocker:      sqlmock.Register(s.config.sqlMocks...),
	})

	metrics := encodeMetrics(collectMetrics(reader))
	traces := encodeSpans(spans.Ended())

	ctx := context.Background()

	_ = mp.Shutdown(ctx) // nolint: errcheck
	_ = tp.Shutdown(ctx) // nolint: errcheck

	chainAsserters(s.config.assertMetricsFuncs...)(t, metrics, "failed to assert metrics, actual:\n%s", metrics)
	chainAsserters(s.config.assertTracesFuncs...)(t, traces, "failed to assert traces, actual:\n%s", traces)
}

// New creates a new test suite.
func New(opts ...SuiteOption) Suite {
	cfg := suiteConfig{}

	for _, o := range opts {
		o(&cfg)
	}

	return &suite{config: cfg}
}

// WithMetricsAsserters sets metrics asserter.
func WithMetricsAsserters(fs ...AssertFunc) SuiteOption {
	return func(c *suiteConfig) {
		c.assertMetricsFuncs = append(c.assertMetricsFuncs, fs...)
	}
}

// MetricsEqualJSON sets metrics asserter.
func MetricsEqualJSON(expect string) SuiteOption {
	return WithMetricsAsserters(equalJSON(expect))
}

// MetricsEmpty sets metrics asserter.
func MetricsEmpty() SuiteOption {
	return WithMetricsAsserters(empty())
}

// MetricsMatch asserts metrics by a callback.
func MetricsMatch(f func(t assert.TestingT, actual []Metric) bool) SuiteOption {
	return WithMetricsAsserters(func(t assert.TestingT, actual string, _ ...any) bool {
		metrics := make([]Metric, 0)

		if actual != "" {
			handleErr(json.Unmarshal([]byte(actual), &metrics))
		}

		return f(t, metrics)
	})
}

// WithTracesAsserters sets traces asserter.
func WithTracesAsserters(fs ...AssertFunc) SuiteOption {
	return func(c *suiteConfig) {
		c.assertTracesFuncs = append(c.assertTracesFuncs, fs...)
	}
}

// TracesEqualJSON sets traces asserter.
func TracesEqualJSON(expect string) SuiteOption {
	return WithTracesAsserters(equalJSON(expect))
}

// TracesEmpty sets traces asserter.
func TracesEmpty() SuiteOption {
	return WithTracesAsserters(empty())
}

// TracesMatch asserts traces by a callback.
func TracesMatch(f func(t assert.TestingT, actual []Span) bool) SuiteOption {
	return WithTracesAsserters(func(t assert.TestingT, actual string, _ ...any) bool {
		spans := make([]Span, 0)

		if actual != "" {
			handleErr(json.Unmarshal([]byte(actual), &spans))
		}

		return f(t, spans)
	})
}

// MockDatabase sets sql mockers.
func MockDatabase(mocks ...func(m sqlmock.Sqlmock)) SuiteOption {
	return func(c *suiteConfig) {
		c.sqlMocks = append(c.sqlMocks, mocks...)
	}
}

func handleErr(err error) {
	if err != nil {
		panic(err)
	}
}
