package dbapi

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // Default database driver.
)

// ConnectFunc establishes a new connection.
type ConnectFunc func(ctx context.Context, cfg Config) (*Conn, error)

// DefaultClient is the client used by Connect.
var DefaultClient = NewClient()

// Client is the connect entry point of the library. Its ConnectFunc can be swapped, for example to intercept every
// new connection.
type Client struct {
	mu      sync.RWMutex
	connect ConnectFunc
}

// NewClient creates a new client that connects through database/sql.
func NewClient() *Client {
	return &Client{connect: connect}
}

// NewClientWithConnectFunc creates a new client using a custom ConnectFunc.
func NewClientWithConnectFunc(f ConnectFunc) *Client {
	c := NewClient()
	c.SetConnectFunc(f)

	return c
}

// ConnectFunc returns the current connect function.
func (c *Client) ConnectFunc() ConnectFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.connect
}

// SetConnectFunc replaces the connect function. Nil restores the default one.
func (c *Client) SetConnectFunc(f ConnectFunc) {
	if f == nil {
		f = connect
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.connect = f
}

// Connect opens a new connection to the database identified by dsn.
func (c *Client) Connect(ctx context.Context, dsn string, opts ...ConnectOption) (*Conn, error) {
	return c.ConnectFunc()(ctx, newConfig(dsn, opts...))
}

// Connect opens a new connection using DefaultClient.
func Connect(ctx context.Context, dsn string, opts ...ConnectOption) (*Conn, error) {
	return DefaultClient.Connect(ctx, dsn, opts...)
}

func connect(ctx context.Context, cfg Config) (*Conn, error) {
	db, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() // nolint: errcheck

		return nil, err
	}

	return NewConn(db, ParseConnInfo(cfg.DSN), cfg.CursorFactory), nil
}
