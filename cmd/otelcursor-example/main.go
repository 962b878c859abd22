// Command otelcursor-example runs a few statements against a PostgreSQL database and prints the spans and the
// metrics they produce.
//
// Environment variables, optionally loaded from a .env file:
//   - DATABASE_URL: the postgres DSN (required)
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - TRACE_STATEMENT_ARGS: add the statement arguments to the spans (default: false)
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.nhat.io/otelcursor"
	"go.nhat.io/otelcursor/dbapi"
)

// ErrMissingDatabaseURL indicates DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required and cannot be empty")

type config struct {
	DatabaseURL        string
	LogLevel           zapcore.Level
	TraceStatementArgs bool
}

func loadConfig() (config, error) {
	// The .env file is optional.
	_ = godotenv.Load() // nolint: errcheck

	cfg := config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:    zapcore.InfoLevel,
	}

	if cfg.DatabaseURL == "" {
		return config{}, ErrMissingDatabaseURL
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	if v := os.Getenv("TRACE_STATEMENT_ARGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid TRACE_STATEMENT_ARGS: %w", err)
		}

		cfg.TraceStatementArgs = b
	}

	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	log, err := logCfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer func() {
		_ = log.Sync() // nolint: errcheck
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("example failed", zap.Error(err))
		os.Exit(1) // nolint: gocritic
	}
}

func run(ctx context.Context, cfg config, log *zap.Logger) error {
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String("otelcursor-example"))

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return err
	}

	metricExporter, err := stdoutmetric.New()
	if err != nil {
		return err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(traceExporter),
		tracesdk.WithResource(res),
	)

	mp := metricsdk.NewMeterProvider(
		metricsdk.WithReader(metricsdk.NewPeriodicReader(metricExporter, metricsdk.WithInterval(time.Minute))),
		metricsdk.WithResource(res),
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("could not shutdown tracer provider", zap.Error(err))
		}

		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Warn("could not shutdown meter provider", zap.Error(err))
		}
	}()

	opts := []otelcursor.Option{
		otelcursor.WithTracerProvider(tp),
		otelcursor.WithMeterProvider(mp),
		otelcursor.WithLogger(log),
		otelcursor.WithInstanceName("example"),
	}

	if cfg.TraceStatementArgs {
		opts = append(opts, otelcursor.TraceStatementArgs())
	}

	instrumentor := otelcursor.NewInstrumentor(nil, opts...)

	instrumentor.Instrument()
	defer instrumentor.Uninstrument()

	conn, err := dbapi.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	defer conn.Close() // nolint: errcheck

	// The temporary table only exists on the session that created it.
	conn.DB().SetMaxOpenConns(1)

	if err := otelcursor.RecordStats(conn, otelcursor.WithMeterProvider(mp), otelcursor.WithInstanceName("example")); err != nil {
		return err
	}

	cur := conn.Cursor()
	defer cur.Close() // nolint: errcheck

	if err := cur.Execute(ctx, "CREATE TEMPORARY TABLE users (id serial PRIMARY KEY, name text NOT NULL)"); err != nil {
		return err
	}

	if err := cur.ExecuteMany(ctx, "INSERT INTO users (name) VALUES (%s)", [][]any{{"alice"}, {"bob"}}); err != nil {
		return err
	}

	query, err := dbapi.SQL("SELECT {} FROM {} WHERE {} = {}").Format(
		dbapi.Identifier{"id"},
		dbapi.Identifier{"users"},
		dbapi.Identifier{"name"},
		dbapi.Placeholder("name"),
	)
	if err != nil {
		return err
	}

	if err := cur.Execute(ctx, query, map[string]any{"name": "alice"}); err != nil {
		return err
	}

	var id int64

	found, err := cur.Fetch(&id)
	if err != nil {
		return err
	}

	log.Info("found user", zap.Bool("found", found), zap.Int64("id", id))

	return nil
}
