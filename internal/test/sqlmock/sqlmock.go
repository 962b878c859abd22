// Package sqlmock registers sqlmock databases that are reachable through a postgres DSN.
package sqlmock

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DriverName is the name of the driver the mocked databases are registered to.
const DriverName = "sqlmock"

// Sqlmock interface.
type Sqlmock = sqlmock.Sqlmock

// NewResult creates a new sql driver Result for Exec based query mocks.
var NewResult = sqlmock.NewResult

// NewRows allows Rows to be created from a sql driver.Value slice or from the CSV string and to be used as sql driver.Rows.
var NewRows = sqlmock.NewRows

// AnyArg will return an Argument which can match any kind of arguments.
var AnyArg = sqlmock.AnyArg

// Sqlmocker mocks and returns the dsn of a sqlmock instance.
type Sqlmocker func(tb testing.TB) string

var dsnSeq atomic.Int64

// DSN returns a unique postgres DSN. The connection info of the mocked databases is always
// database shop, host db.local, port 5433 and user alice.
func DSN() string {
	return fmt.Sprintf("postgres://alice@db.local:5433/shop?sslmode=disable&application_name=oteltest_%d", dsnSeq.Add(1))
}

// Register creates a new sqlmock instance on every call and returns a dsn to connect to it with DriverName.
func Register(mocks ...func(m Sqlmock)) Sqlmocker {
	return func(tb testing.TB) string {
		tb.Helper()

		dsn := DSN()

		mockDB, m, err := sqlmock.NewWithDSN(dsn,
			sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
			sqlmock.MonitorPingsOption(true),
		)
		require.NoError(tb, err)

		for _, mock := range mocks {
			mock(m)
		}

		tb.Cleanup(func() {
			assert.NoError(tb, m.ExpectationsWereMet())

			// We do not care if closing mock fails.
			_ = mockDB.Close() // nolint: errcheck
		})

		return dsn
	}
}
