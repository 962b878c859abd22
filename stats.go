package otelcursor

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"go.nhat.io/otelcursor/dbapi"
)

// defaultMinimumReadDBStatsInterval is the default minimum interval between calls to db.Stats().
const defaultMinimumReadDBStatsInterval = time.Second

// ErrNilConnection is returned when recording the stats of a nil connection.
var ErrNilConnection = errors.New("otelcursor: nil connection")

// RecordStats records the connection pool statistics of the connection at the provided interval.
func RecordStats(conn *dbapi.Conn, opts ...StatsOption) error {
	if conn == nil {
		return ErrNilConnection
	}

	o := statsOptions{
		meterProvider:              otel.GetMeterProvider(),
		minimumReadDBStatsInterval: defaultMinimumReadDBStatsInterval,
	}

	for _, opt := range opts {
		opt.applyStatsOptions(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName,
		metric.WithInstrumentationVersion(Version()),
		metric.WithSchemaURL(semconv.SchemaURL),
	)

	attrs := make([]attribute.KeyValue, 0, len(o.defaultAttributes)+2)
	attrs = append(attrs, semconv.DBSystemPostgreSQL)

	if name := conn.Info().DBName; name != "" {
		attrs = append(attrs, semconv.DBNameKey.String(name))
	}

	attrs = append(attrs, o.defaultAttributes...)

	return recordStats(meter, conn.DB(), o.minimumReadDBStatsInterval, attrs...)
}

// nolint: funlen
func recordStats(
	meter metric.Meter,
	db *sql.DB,
	minimumReadDBStatsInterval time.Duration,
	attrs ...attribute.KeyValue,
) error {
	var (
		err error

		openConnections   metric.Int64ObservableGauge
		idleConnections   metric.Int64ObservableGauge
		activeConnections metric.Int64ObservableGauge
		waitCount         metric.Int64ObservableGauge
		waitDuration      metric.Float64ObservableGauge
		idleClosed        metric.Int64ObservableGauge
		lifetimeClosed    metric.Int64ObservableGauge

		dbStats     sql.DBStats
		lastDBStats time.Time

		// lock prevents a race between batch observer and instrument registration.
		lock sync.Mutex
	)

	lock.Lock()
	defer lock.Unlock()

	openConnections, err = meter.Int64ObservableGauge(
		dbSQLConnectionsOpen,
		metric.WithUnit("{connection}"),
		metric.WithDescription("Count of open connections in the pool"),
	)
	handleErr(err)

	idleConnections, err = meter.Int64ObservableGauge(
		dbSQLConnectionsIdle,
		metric.WithUnit("{connection}"),
		metric.WithDescription("Count of idle connections in the pool"),
	)
	handleErr(err)

	activeConnections, err = meter.Int64ObservableGauge(
		dbSQLConnectionsActive,
		metric.WithUnit("{connection}"),
		metric.WithDescription("Count of active connections in the pool"),
	)
	handleErr(err)

	waitCount, err = meter.Int64ObservableGauge(
		dbSQLConnectionsWaitCount,
		metric.WithUnit("{connection}"),
		metric.WithDescription("The total number of connections waited for"),
	)
	handleErr(err)

	waitDuration, err = meter.Float64ObservableGauge(
		dbSQLConnectionsWaitDuration,
		metric.WithUnit("ms"),
		metric.WithDescription("The total time blocked waiting for a new connection"),
	)
	handleErr(err)

	idleClosed, err = meter.Int64ObservableGauge(
		dbSQLConnectionsIdleClosed,
		metric.WithUnit("{connection}"),
		metric.WithDescription("The total number of connections closed due to SetMaxIdleConns"),
	)
	handleErr(err)

	lifetimeClosed, err = meter.Int64ObservableGauge(
		dbSQLConnectionsLifetimeClosed,
		metric.WithUnit("{connection}"),
		metric.WithDescription("The total number of connections closed due to SetConnMaxLifetime"),
	)
	handleErr(err)

	attrOpt := metric.WithAttributes(attrs...)

	_, err = meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		lock.Lock()
		defer lock.Unlock()

		now := time.Now()
		if now.Sub(lastDBStats) >= minimumReadDBStatsInterval {
			dbStats = db.Stats()
			lastDBStats = now
		}

		obs.ObserveInt64(openConnections, int64(dbStats.OpenConnections), attrOpt)
		obs.ObserveInt64(idleConnections, int64(dbStats.Idle), attrOpt)
		obs.ObserveInt64(activeConnections, int64(dbStats.InUse), attrOpt)
		obs.ObserveInt64(waitCount, dbStats.WaitCount, attrOpt)
		obs.ObserveFloat64(waitDuration, float64(dbStats.WaitDuration.Nanoseconds())/1e6, attrOpt)
		obs.ObserveInt64(idleClosed, dbStats.MaxIdleClosed, attrOpt)
		obs.ObserveInt64(lifetimeClosed, dbStats.MaxLifetimeClosed, attrOpt)

		return nil
	},
		openConnections,
		idleConnections,
		activeConnections,
		waitCount,
		waitDuration,
		idleClosed,
		lifetimeClosed,
	)

	return err
}
