package otelcursor

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"go.nhat.io/otelcursor/dbapi"
)

// Instrumentor traces the connections created by a dbapi.Client, or individual connections.
//
// Instrument and Uninstrument are expected to be called at setup and teardown. Calls are serialized, misuse such as
// instrumenting twice is logged and ignored.
type Instrumentor struct {
	client *dbapi.Client
	opts   []Option
	logger *zap.Logger

	mu           sync.Mutex
	original     dbapi.ConnectFunc
	instrumented bool

	// conns holds the cursor factory of every connection before it was instrumented.
	conns map[*dbapi.Conn]dbapi.CursorFactory
}

// NewInstrumentor creates an Instrumentor for the client. A nil client means dbapi.DefaultClient. The options are
// applied to every instrumentation, before the options given to Instrument or InstrumentConnection.
func NewInstrumentor(client *dbapi.Client, opts ...Option) *Instrumentor {
	if client == nil {
		client = dbapi.DefaultClient
	}

	return &Instrumentor{
		client: client,
		opts:   opts,
		logger: newOptions(opts...).logger,
		conns:  make(map[*dbapi.Conn]dbapi.CursorFactory),
	}
}

// Instrument replaces the connect function of the client with one that traces the connect calls and returns
// connections whose cursors are traced.
func (i *Instrumentor) Instrument(opts ...Option) {
	o := newOptions(slices.Concat(i.opts, opts)...)

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.instrumented {
		o.logger.Warn("client is already instrumented")

		return
	}

	i.original = i.client.ConnectFunc()
	i.client.SetConnectFunc(wrapConnect(newIntegration(o), i.original))
	i.instrumented = true
}

// Uninstrument restores the connect function of the client. The connections created while instrumented stay traced.
func (i *Instrumentor) Uninstrument() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.instrumented {
		i.logger.Warn("client is not instrumented")

		return
	}

	i.client.SetConnectFunc(i.original)
	i.original = nil
	i.instrumented = false
}

// IsInstrumented tells whether the client is instrumented.
func (i *Instrumentor) IsInstrumented() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.instrumented
}

// InstrumentConnection makes the cursors of an existing connection traced. The cursor factory of the connection, if
// any, keeps producing the cursors, which are wrapped. A connection that is already instrumented is left untouched.
//
// The Instrumentor keeps track of the connection until UninstrumentConnection is called or the connection is closed.
func (i *Instrumentor) InstrumentConnection(conn *dbapi.Conn, opts ...Option) *dbapi.Conn {
	o := newOptions(slices.Concat(i.opts, opts)...)

	if conn == nil {
		o.logger.Warn("could not instrument a nil connection")

		return nil
	}

	i.mu.Lock()

	if _, ok := i.conns[conn]; ok {
		i.mu.Unlock()

		o.logger.Warn("connection is already instrumented", connectionFields(conn)...)

		return conn
	}

	original := conn.CursorFactory()
	s := newSession(newIntegration(o))

	s.bind(conn)
	conn.SetCursorFactory(newCursorFactory(s, original))

	i.conns[conn] = original

	i.mu.Unlock()

	// OnClose runs the function right away on a closed connection, so it must not be called with the lock held.
	conn.OnClose(func() { i.forget(conn) })

	return conn
}

// forget drops a closed connection from the side table.
func (i *Instrumentor) forget(conn *dbapi.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.conns, conn)
}

// UninstrumentConnection restores the cursor factory the connection had before InstrumentConnection. A connection
// that was not instrumented gets the default cursor factory.
func (i *Instrumentor) UninstrumentConnection(conn *dbapi.Conn) *dbapi.Conn {
	if conn == nil {
		i.logger.Warn("could not uninstrument a nil connection")

		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	original, ok := i.conns[conn]
	if !ok {
		i.logger.Warn("connection is not instrumented", connectionFields(conn)...)
	}

	conn.SetCursorFactory(original)
	delete(i.conns, conn)

	return conn
}

// wrapConnect traces a connect function and makes it return connections whose cursors are traced.
func wrapConnect(in *integration, connect dbapi.ConnectFunc) dbapi.ConnectFunc {
	return func(ctx context.Context, cfg dbapi.Config) (*dbapi.Conn, error) {
		s := newSession(in)
		cfg.CursorFactory = newCursorFactory(s, cfg.CursorFactory)

		var conn *dbapi.Conn

		f := chainMiddlewares([]connectFuncMiddleware{
			connectStats(in.recorder),
			connectTrace(s),
		}, func(ctx context.Context) error {
			var err error

			conn, err = connect(ctx, cfg)
			if err == nil && conn != nil {
				s.bind(conn)
			}

			return err
		})

		err := f(ctx)

		return conn, err
	}
}

func connectStats(r methodRecorder) connectFuncMiddleware {
	return func(next connectFunc) connectFunc {
		return func(ctx context.Context) error {
			end := r.Record(ctx, metricMethodConnect)

			err := next(ctx)

			end(err)

			return err
		}
	}
}

func connectTrace(s *session) connectFuncMiddleware {
	return func(next connectFunc) connectFunc {
		return func(ctx context.Context) error {
			ctx, end := s.tracer.Trace(ctx, "connect")

			err := next(ctx)

			end(err, s.connectionAttributesOf()...)

			return err
		}
	}
}

func connectionFields(conn *dbapi.Conn) []zap.Field {
	info := conn.Info()

	return []zap.Field{
		zap.String("database", info.DBName),
		zap.String("host", info.Host),
	}
}
