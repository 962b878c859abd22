package dbapi

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Renderer turns the parts of a Composable into SQL text.
type Renderer interface {
	QuoteIdentifier(parts ...string) string
	QuoteLiteral(v any) (string, error)
}

// Cursor submits statements and retrieves their results.
//
// A query is either a string or a Composable. Parameters use the %s or %(name)s placeholders; named placeholders
// require a single map[string]any argument.
type Cursor interface {
	Renderer

	Execute(ctx context.Context, query any, args ...any) error
	ExecuteMany(ctx context.Context, query any, argsSeq [][]any) error
	CallProc(ctx context.Context, name string, args ...any) error

	Fetch(dest ...any) (bool, error)
	Columns() ([]string, error)
	RowCount() int64
	Connection() *Conn
	Close() error
}

// UnwrapCursor returns the innermost cursor of a chain of cursor decorators implementing Unwrap() Cursor.
func UnwrapCursor(c Cursor) Cursor {
	for {
		u, ok := c.(interface{ Unwrap() Cursor })
		if !ok {
			return c
		}

		c = u.Unwrap()
	}
}

var _ Cursor = (*BaseCursor)(nil)

// BaseCursor is the stock cursor of the library.
type BaseCursor struct {
	conn     *Conn
	rows     *sql.Rows
	rowCount int64
	closed   bool
}

// NewCursor is the default CursorFactory.
func NewCursor(conn *Conn) Cursor {
	return &BaseCursor{conn: conn, rowCount: -1}
}

// Execute runs a statement. Its result set, if any, is available through Fetch.
func (c *BaseCursor) Execute(ctx context.Context, query any, args ...any) error {
	text, err := c.prepare(query)
	if err != nil {
		return err
	}

	text, bound, err := Rebind(text, args)
	if err != nil {
		return err
	}

	return c.query(ctx, text, bound...)
}

// ExecuteMany runs a statement once for every set of parameters.
func (c *BaseCursor) ExecuteMany(ctx context.Context, query any, argsSeq [][]any) error {
	text, err := c.prepare(query)
	if err != nil {
		return err
	}

	var total int64

	for _, args := range argsSeq {
		q, bound, err := Rebind(text, args)
		if err != nil {
			return err
		}

		res, err := c.conn.db.ExecContext(ctx, q, bound...)
		if err != nil {
			return err
		}

		if n, err := res.RowsAffected(); err == nil && total >= 0 {
			total += n
		} else {
			total = -1
		}
	}

	c.rowCount = total

	return nil
}

// CallProc calls a stored procedure with positional arguments.
func (c *BaseCursor) CallProc(ctx context.Context, name string, args ...any) error {
	if err := c.reset(); err != nil {
		return err
	}

	var sb strings.Builder

	sb.WriteString("SELECT * FROM ")
	sb.WriteString(name)
	sb.WriteByte('(')

	for i := range args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(i + 1))
	}

	sb.WriteByte(')')

	return c.query(ctx, sb.String(), args...)
}

// Fetch scans the next row of the current result set into dest. It returns false when there are no more rows.
func (c *BaseCursor) Fetch(dest ...any) (bool, error) {
	if c.closed {
		return false, ErrCursorClosed
	}

	if c.rows == nil {
		return false, ErrNoResultSet
	}

	if !c.rows.Next() {
		return false, c.rows.Err()
	}

	if err := c.rows.Scan(dest...); err != nil {
		return false, err
	}

	return true, nil
}

// Columns returns the column names of the current result set.
func (c *BaseCursor) Columns() ([]string, error) {
	if c.rows == nil {
		return nil, ErrNoResultSet
	}

	return c.rows.Columns()
}

// RowCount returns the number of rows affected by the last ExecuteMany, or -1 when unknown.
func (c *BaseCursor) RowCount() int64 {
	return c.rowCount
}

// Connection returns the connection of the cursor.
func (c *BaseCursor) Connection() *Conn {
	return c.conn
}

// Close releases the current result set. The cursor cannot be used afterward.
func (c *BaseCursor) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true

	return c.closeRows()
}

// QuoteIdentifier quotes a possibly qualified identifier.
func (c *BaseCursor) QuoteIdentifier(parts ...string) string {
	return quoteIdentifier(parts...)
}

// QuoteLiteral renders a value as a SQL literal.
func (c *BaseCursor) QuoteLiteral(v any) (string, error) {
	return quoteLiteral(v)
}

func (c *BaseCursor) prepare(query any) (string, error) {
	if err := c.reset(); err != nil {
		return "", err
	}

	switch q := query.(type) {
	case string:
		return q, nil

	case Composable:
		return q.AsString(c)
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedQuery, query)
}

func (c *BaseCursor) reset() error {
	if c.closed {
		return ErrCursorClosed
	}

	c.rowCount = -1

	return c.closeRows()
}

func (c *BaseCursor) query(ctx context.Context, query string, args ...any) error {
	rows, err := c.conn.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}

	c.rows = rows

	return nil
}

func (c *BaseCursor) closeRows() error {
	if c.rows == nil {
		return nil
	}

	err := c.rows.Close()
	c.rows = nil

	return err
}
