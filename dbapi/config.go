package dbapi

import (
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultDriverName is the database/sql driver used when none is configured.
const DefaultDriverName = "pgx"

// Config holds the arguments of a connect call.
type Config struct {
	// DSN is the data source name passed to the driver.
	DSN string
	// DriverName is the registered database/sql driver name.
	DriverName string
	// CursorFactory constructs the cursors of the connection. Nil means NewCursor.
	CursorFactory CursorFactory
}

// ConnectOption configures a connect call.
type ConnectOption func(c *Config)

// WithDriverName sets the database/sql driver name.
func WithDriverName(name string) ConnectOption {
	return func(c *Config) {
		c.DriverName = name
	}
}

// WithCursorFactory sets the cursor factory of the new connection.
func WithCursorFactory(f CursorFactory) ConnectOption {
	return func(c *Config) {
		c.CursorFactory = f
	}
}

func newConfig(dsn string, opts ...ConnectOption) Config {
	cfg := Config{
		DSN:        dsn,
		DriverName: DefaultDriverName,
	}

	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

// ConnInfo describes the server side of a connection.
type ConnInfo struct {
	DBName string
	Host   string
	Port   uint16
	User   string
}

// ParseConnInfo reads the connection info from a PostgreSQL DSN, either in URL or in keyword/value form.
//
// A DSN that cannot be parsed yields an empty ConnInfo.
func ParseConnInfo(dsn string) ConnInfo {
	cfg, err := pgconn.ParseConfig(dsn)
	if err != nil {
		return ConnInfo{}
	}

	return ConnInfo{
		DBName: cfg.Database,
		Host:   cfg.Host,
		Port:   cfg.Port,
		User:   cfg.User,
	}
}
