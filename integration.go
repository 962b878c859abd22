package otelcursor

import (
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go.nhat.io/otelcursor/dbapi"
)

const instrumentationName = "go.nhat.io/otelcursor"

// connectionAttribute reads one attribute of a live connection for span tagging.
type connectionAttribute struct {
	read func(info dbapi.ConnInfo) (attribute.KeyValue, bool)
}

var postgresConnectionAttributes = []connectionAttribute{
	{
		read: func(info dbapi.ConnInfo) (attribute.KeyValue, bool) {
			return semconv.DBNameKey.String(info.DBName), info.DBName != ""
		},
	},
	{
		read: func(info dbapi.ConnInfo) (attribute.KeyValue, bool) {
			return semconv.NetPeerNameKey.String(info.Host), info.Host != ""
		},
	},
	{
		read: func(info dbapi.ConnInfo) (attribute.KeyValue, bool) {
			return semconv.NetPeerPortKey.Int(int(info.Port)), info.Port != 0
		},
	},
	{
		read: func(info dbapi.ConnInfo) (attribute.KeyValue, bool) {
			return semconv.DBUserKey.String(info.User), info.User != ""
		},
	},
}

// integration is shared by every cursor of the connections of one instrumentation session. It is read-only once
// created.
type integration struct {
	system attribute.KeyValue

	connectionAttributes []connectionAttribute

	tracer    methodTracer
	recorder  methodRecorder
	traceArgs bool
	logger    *zap.Logger
}

func newIntegration(o options) *integration {
	system := semconv.DBSystemPostgreSQL

	attrs := make([]attribute.KeyValue, 0, len(o.defaultAttributes)+1)
	attrs = append(attrs, system)
	attrs = append(attrs, o.defaultAttributes...)

	tracer := newMethodTracer(
		o.tracerProvider.Tracer(instrumentationName,
			trace.WithInstrumentationVersion(Version()),
			trace.WithSchemaURL(semconv.SchemaURL),
		),
		traceWithDefaultAttributes(attrs...),
		traceWithSpanNameFormatter(o.spanNameFormatter),
		traceWithErrorToSpanStatus(o.errorToSpanStatus),
	)

	meter := o.meterProvider.Meter(instrumentationName,
		metric.WithInstrumentationVersion(Version()),
		metric.WithSchemaURL(semconv.SchemaURL),
	)

	var (
		latencyMsHistogram metric.Float64Histogram = noop.Float64Histogram{}
		callsCounter       metric.Int64Counter     = noop.Int64Counter{}
	)

	if h, err := meter.Float64Histogram(dbSQLClientLatencyMs,
		metric.WithUnit("ms"),
		metric.WithDescription(`The distribution of latencies of various calls in milliseconds`),
	); err != nil {
		handleErr(err)
	} else {
		latencyMsHistogram = h
	}

	if c, err := meter.Int64Counter(dbSQLClientCalls,
		metric.WithUnit("{call}"),
		metric.WithDescription(`The number of various calls of methods`),
	); err != nil {
		handleErr(err)
	} else {
		callsCounter = c
	}

	return &integration{
		system:               system,
		connectionAttributes: postgresConnectionAttributes,
		tracer:               tracer,
		recorder:             newMethodRecorder(latencyMsHistogram.Record, callsCounter.Add, attrs...),
		traceArgs:            o.traceArgs,
		logger:               o.logger.With(zap.String("instrumentation", instrumentationName)),
	}
}

// session binds an integration to the connection created by one connect call or passed to InstrumentConnection.
type session struct {
	*integration

	once       sync.Once
	mu         sync.RWMutex
	database   string
	attributes []attribute.KeyValue
}

func newSession(in *integration) *session {
	return &session{integration: in}
}

// bind reads the connection attributes once and caches them for the spans of every cursor.
func (s *session) bind(conn *dbapi.Conn) {
	s.once.Do(func() {
		info := conn.Info()
		var attrs []attribute.KeyValue

		for _, a := range s.connectionAttributes {
			if kv, ok := a.read(info); ok {
				attrs = append(attrs, kv)
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.database = info.DBName
		s.attributes = attrs
	})
}

func (s *session) connectionAttributesOf() []attribute.KeyValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.attributes
}

// spanName falls back to the database name, then to the database system, when there is no operation.
func (s *session) spanName(op string) string {
	if op != "" {
		return op
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.database != "" {
		return s.database
	}

	return s.system.Value.AsString()
}
