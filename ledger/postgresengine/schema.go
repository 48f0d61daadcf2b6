package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/circulib/lending-go/ledger"
)

const (
	createBooksTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	id uuid PRIMARY KEY,
	title text NOT NULL,
	author text NOT NULL,
	year_published integer NOT NULL,
	category text NOT NULL,
	total_copies integer NOT NULL CHECK (total_copies >= 0),
	available_copies integer NOT NULL CHECK (available_copies >= 0),
	image_url text NOT NULL DEFAULT '',
	CHECK (available_copies <= total_copies)
)`

	createLoansTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	id uuid PRIMARY KEY,
	borrower_id uuid NOT NULL,
	book_id uuid NOT NULL REFERENCES %s (id),
	loan_type integer NOT NULL,
	borrowed_at timestamp with time zone NOT NULL,
	due_date date NOT NULL,
	returned boolean NOT NULL DEFAULT FALSE,
	returned_at timestamp with time zone
)`

	createLoansBorrowerIndexDDL = `CREATE INDEX IF NOT EXISTS %s_borrower_open_idx ON %s (borrower_id) WHERE returned = FALSE`
	createLoansBookIndexDDL     = `CREATE INDEX IF NOT EXISTS %s_book_open_idx ON %s (book_id) WHERE returned = FALSE`

	createJournalTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	sequence_number bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	entry_type text NOT NULL,
	occurred_at timestamp with time zone NOT NULL,
	payload jsonb NOT NULL
)`
)

// CreateSchema creates the books, loans and journal tables if they do not
// exist, using the configured table names. Intended for tests and tooling;
// production deployments typically run migrations instead.
func (s Store) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(createBooksTableDDL, s.booksTable),
		fmt.Sprintf(createLoansTableDDL, s.loansTable, s.booksTable),
		fmt.Sprintf(createLoansBorrowerIndexDDL, s.loansTable, s.loansTable),
		fmt.Sprintf(createLoansBookIndexDDL, s.loansTable, s.loansTable),
		fmt.Sprintf(createJournalTableDDL, s.journalTable),
	}

	dbTx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		return errors.Join(ledger.ErrBeginningTxFailed, beginErr)
	}

	for _, statement := range statements {
		if _, execErr := dbTx.Exec(ctx, statement); execErr != nil {
			s.rollback(ctx, dbTx)
			return errors.Join(ledger.ErrExecutingStmtFailed, execErr)
		}
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		return errors.Join(ledger.ErrCommittingTxFailed, commitErr)
	}

	return nil
}
