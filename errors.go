package otelcursor

import "go.opentelemetry.io/otel"

// handleErr reports telemetry setup errors without interrupting the database calls.
func handleErr(err error) {
	if err != nil {
		otel.Handle(err)
	}
}
