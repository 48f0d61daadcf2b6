package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/postgresengine/internal/adapters"
)

const (
	defaultBooksTableName   = "books"
	defaultLoansTableName   = "loans"
	defaultJournalTableName = "lending_journal"

	logMsgBeginTxFailed      = "failed to begin transaction"
	logMsgCommitTxFailed     = "failed to commit transaction"
	logMsgRollbackTxFailed   = "failed to roll back transaction"
	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgConflictDetected   = "concurrency conflict detected"
	logMsgSQLExecuted        = "executed sql for: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrDurationMS        = "duration_ms"

	dialectPostgres = "postgres"
)

type sqlQueryString = string

// Store implements ledger.Store on PostgreSQL.
// It leverages a database adapter and supports customizable logging and table names.
type Store struct {
	db           adapters.DBAdapter
	booksTable   string
	loansTable   string
	journalTable string
	logger       ledger.Logger
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ledger.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	store := Store{
		db:           db,
		booksTable:   defaultBooksTableName,
		loansTable:   defaultLoansTableName,
		journalTable: defaultJournalTableName,
	}

	for _, option := range options {
		if err := option(&store); err != nil {
			return Store{}, err
		}
	}

	return store, nil
}

// InTransaction runs fn inside one database transaction.
//
// The transaction is rolled back when fn returns an error and committed
// otherwise. Serialization failures and deadlocks, from any statement or from
// the commit itself, are mapped to ledger.ErrConcurrencyConflict so callers
// can retry the whole unit of work.
func (s Store) InTransaction(ctx context.Context, fn func(ctx context.Context, tx ledger.Transaction) error) error {
	dbTx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBeginTxFailed, logAttrError, beginErr.Error())
		}

		return errors.Join(ledger.ErrBeginningTxFailed, beginErr)
	}

	fnErr := fn(ctx, transaction{db: dbTx, store: s})
	if fnErr != nil {
		s.rollback(ctx, dbTx)
		return s.mapConflict(fnErr)
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgCommitTxFailed, logAttrError, commitErr.Error())
		}

		if isSerializationFailure(commitErr) {
			return errors.Join(ledger.ErrConcurrencyConflict, commitErr)
		}

		return errors.Join(ledger.ErrCommittingTxFailed, commitErr)
	}

	return nil
}

// rollback aborts the transaction and logs a failure to do so.
// sql.ErrTxDone after a failed commit attempt is expected and not logged.
func (s Store) rollback(ctx context.Context, dbTx adapters.DBTx) {
	if rollbackErr := dbTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
		if s.logger != nil {
			s.logger.Warn(logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
		}
	}
}

// mapConflict wraps serialization failures with ledger.ErrConcurrencyConflict.
func (s Store) mapConflict(err error) error {
	if isSerializationFailure(err) {
		if s.logger != nil {
			s.logger.Info(logMsgConflictDetected, logAttrError, err.Error())
		}

		return errors.Join(ledger.ErrConcurrencyConflict, err)
	}

	return err
}

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (s Store) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
