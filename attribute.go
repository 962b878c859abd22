package otelcursor

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	// Type: string.
	// Required: No.
	dbInstance = attribute.Key("db.instance")

	// Type: string.
	// Required: No.
	dbSQLStatus = attribute.Key("db.sql.status")
	// Type: string.
	// Required: No.
	dbSQLError = attribute.Key("db.sql.error")
)

var (
	dbSQLStatusOK    = dbSQLStatus.String("OK")
	dbSQLStatusERROR = dbSQLStatus.String("ERROR")
)
