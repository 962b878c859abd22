package dbapi

import (
	"database/sql"
	"sync"
)

// CursorFactory constructs a cursor bound to a connection.
type CursorFactory func(conn *Conn) Cursor

// Conn is a connection to the database.
type Conn struct {
	db   *sql.DB
	info ConnInfo

	mu            sync.RWMutex
	cursorFactory CursorFactory
	closed        bool
	onClose       []func()
}

// NewConn creates a connection from an existing database handle. A nil factory means NewCursor.
func NewConn(db *sql.DB, info ConnInfo, factory CursorFactory) *Conn {
	return &Conn{
		db:            db,
		info:          info,
		cursorFactory: factory,
	}
}

// Cursor creates a new cursor using the current cursor factory.
func (c *Conn) Cursor() Cursor {
	f := c.CursorFactory()
	if f == nil {
		f = NewCursor
	}

	return f(c)
}

// CursorFactory returns the cursor factory of the connection. Nil means the default one.
func (c *Conn) CursorFactory() CursorFactory {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cursorFactory
}

// SetCursorFactory replaces the cursor factory of the connection. Nil restores the default one.
func (c *Conn) SetCursorFactory(f CursorFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cursorFactory = f
}

// Info returns the connection info.
func (c *Conn) Info() ConnInfo {
	return c.info
}

// DB returns the underlying database handle.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// OnClose registers a function that is called once the connection is closed. It is called right away when the
// connection is already closed.
func (c *Conn) OnClose(f func()) {
	c.mu.Lock()

	if !c.closed {
		c.onClose = append(c.onClose, f)
		c.mu.Unlock()

		return
	}

	c.mu.Unlock()

	f()
}

// Close closes the connection. The functions registered with OnClose are called on the first call, even if closing
// the database handle fails.
func (c *Conn) Close() error {
	c.mu.Lock()

	hooks := c.onClose
	first := !c.closed
	c.closed = true
	c.onClose = nil

	c.mu.Unlock()

	var err error

	if c.db != nil {
		err = c.db.Close()
	}

	if first {
		for _, f := range hooks {
			f()
		}
	}

	return err
}
