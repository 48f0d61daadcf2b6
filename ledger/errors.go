package ledger

import "errors"

var (
	// ErrConcurrencyConflict is returned when a transaction lost the race
	// against a concurrent writer and can be safely retried - failure leaves
	// no partial mutation.
	ErrConcurrencyConflict = errors.New("concurrency conflict, transaction lost against a concurrent writer")

	// ErrReleaseExceedsTotalCopies is returned when releasing a copy would
	// push the available count above the total. It indicates a double
	// release, which the FinishLoan guard is supposed to make impossible.
	ErrReleaseExceedsTotalCopies = errors.New("releasing a copy would exceed the book's total copies")

	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("empty table name supplied")

	ErrBuildingQueryFailed  = errors.New("failed to build sql query")
	ErrBeginningTxFailed    = errors.New("failed to begin transaction")
	ErrCommittingTxFailed   = errors.New("failed to commit transaction")
	ErrQueryingLedgerFailed = errors.New("ledger query execution failed")
	ErrExecutingStmtFailed  = errors.New("ledger statement execution failed")
	ErrScanningDBRowFailed  = errors.New("failed to scan database row")
)
