package otelcursor

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option allows for managing otelcursor configuration using functional options.
type Option interface {
	applyOptions(o *options)
}

// StatsOption allows for managing stats configuration using functional options.
type StatsOption interface {
	applyStatsOptions(o *statsOptions)
}

// SharedOption is an option accepted by both the instrumentation and RecordStats.
type SharedOption interface {
	Option
	StatsOption
}

// options holds the configuration of the instrumentation.
type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	logger         *zap.Logger

	spanNameFormatter spanNameFormatter
	errorToSpanStatus errorToSpanStatus

	// traceArgs adds the statement arguments to the spans as db.sql.args.* attributes.
	traceArgs bool

	// defaultAttributes will be set to each span and metrics as default.
	defaultAttributes []attribute.KeyValue
}

func newOptions(opts ...Option) options {
	o := options{
		tracerProvider:    otel.GetTracerProvider(),
		meterProvider:     otel.GetMeterProvider(),
		logger:            zap.NewNop(),
		spanNameFormatter: formatSpanName,
		errorToSpanStatus: spanStatusFromError,
	}

	for _, opt := range opts {
		opt.applyOptions(&o)
	}

	return o
}

// WithTracerProvider sets tracer provider.
func WithTracerProvider(p trace.TracerProvider) Option {
	return optionFunc(func(o *options) {
		o.tracerProvider = p
	})
}

// WithMeterProvider sets meter provider.
func WithMeterProvider(p metric.MeterProvider) SharedOption {
	return struct {
		optionFunc
		statsOptionFunc
	}{
		optionFunc: func(o *options) {
			o.meterProvider = p
		},
		statsOptionFunc: func(o *statsOptions) {
			o.meterProvider = p
		},
	}
}

// WithLogger sets the logger used to report misuse, such as instrumenting twice. Nil loggers are ignored.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithInstanceName sets database instance name.
func WithInstanceName(instanceName string) SharedOption {
	return WithDefaultAttributes(dbInstance.String(instanceName))
}

// WithDefaultAttributes will be set to each span and metrics as default.
func WithDefaultAttributes(attrs ...attribute.KeyValue) SharedOption {
	return struct {
		optionFunc
		statsOptionFunc
	}{
		optionFunc: func(o *options) {
			o.defaultAttributes = append(o.defaultAttributes, attrs...)
		},
		statsOptionFunc: func(o *statsOptions) {
			o.defaultAttributes = append(o.defaultAttributes, attrs...)
		},
	}
}

// WithSpanNameFormatter sets the function that names the spans. It receives the operation, for example SELECT.
func WithSpanNameFormatter(f spanNameFormatter) Option {
	return optionFunc(func(o *options) {
		o.spanNameFormatter = f
	})
}

// ConvertErrorToSpanStatus sets a custom error converter.
func ConvertErrorToSpanStatus(f errorToSpanStatus) Option {
	return optionFunc(func(o *options) {
		o.errorToSpanStatus = f
	})
}

// TraceStatementArgs adds the arguments of every statement to the spans.
func TraceStatementArgs() Option {
	return optionFunc(func(o *options) {
		o.traceArgs = true
	})
}

// WithMinimumReadDBStatsInterval sets the minimum interval between calls to db.Stats(). Negative values are ignored.
func WithMinimumReadDBStatsInterval(interval time.Duration) StatsOption {
	return statsOptionFunc(func(o *statsOptions) {
		if interval >= 0 {
			o.minimumReadDBStatsInterval = interval
		}
	})
}

type statsOptions struct {
	// meterProvider sets the metric.MeterProvider. If nil, the global Provider will be used.
	meterProvider metric.MeterProvider

	// minimumReadDBStatsInterval sets the minimum interval between calls to db.Stats().
	minimumReadDBStatsInterval time.Duration

	// defaultAttributes will be set to each metrics as default.
	defaultAttributes []attribute.KeyValue
}

type optionFunc func(o *options)

func (f optionFunc) applyOptions(o *options) {
	f(o)
}

type statsOptionFunc func(o *statsOptions)

func (f statsOptionFunc) applyStatsOptions(o *statsOptions) {
	f(o)
}
