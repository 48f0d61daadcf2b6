package postgresengine

import (
	"github.com/circulib/lending-go/ledger"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithBooksTableName sets the table name for book records.
func WithBooksTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ledger.ErrEmptyTableName
		}

		s.booksTable = tableName

		return nil
	}
}

// WithLoansTableName sets the table name for loan records.
func WithLoansTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ledger.ErrEmptyTableName
		}

		s.loansTable = tableName

		return nil
	}
}

// WithJournalTableName sets the table name for the lending journal.
func WithJournalTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ledger.ErrEmptyTableName
		}

		s.journalTable = tableName

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: concurrency conflicts (production-safe)
// Warn level: non-critical issues like rollback failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger ledger.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}
