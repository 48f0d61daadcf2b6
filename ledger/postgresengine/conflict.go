package postgresengine

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// isSerializationFailure reports whether the error is a PostgreSQL
// serialization failure or deadlock, i.e. a transaction that lost against a
// concurrent writer and is safe to retry. Both the pgx and the lib/pq driver
// error types are recognized.
func isSerializationFailure(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return isRetryableSQLState(pgxErr.SQLState())
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isRetryableSQLState(string(pqErr.Code))
	}

	return false
}

func isRetryableSQLState(sqlState string) bool {
	return sqlState == sqlStateSerializationFailure || sqlState == sqlStateDeadlockDetected
}
