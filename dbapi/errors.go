package dbapi

import "errors"

var (
	// ErrFormat indicates that a statement could not be formatted with its parameters.
	ErrFormat = errors.New("dbapi: invalid statement format")
	// ErrUnsupportedQuery indicates that a query is neither a string nor a Composable.
	ErrUnsupportedQuery = errors.New("dbapi: unsupported query type")
	// ErrNoResultSet indicates that the last operation did not produce a result set.
	ErrNoResultSet = errors.New("dbapi: no result set")
	// ErrCursorClosed indicates that the cursor has been closed.
	ErrCursorClosed = errors.New("dbapi: cursor is closed")
)
