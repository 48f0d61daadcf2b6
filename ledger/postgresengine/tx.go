package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/postgresengine/internal/adapters"
	"github.com/circulib/lending-go/lending"
)

const (
	colID              = "id"
	colTitle           = "title"
	colAuthor          = "author"
	colYearPublished   = "year_published"
	colCategory        = "category"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colImageURL        = "image_url"
	colBorrowerID      = "borrower_id"
	colBookID          = "book_id"
	colLoanType        = "loan_type"
	colBorrowedAt      = "borrowed_at"
	colDueDate         = "due_date"
	colReturned        = "returned"
	colReturnedAt      = "returned_at"
	colEntryType       = "entry_type"
	colOccurredAt      = "occurred_at"
	colPayload         = "payload"

	castIDText = "id::text"
	castJsonb  = "?::jsonb"

	logActionBookByID        = "book by id"
	logActionInsertBook      = "insert book"
	logActionDeleteBook      = "delete book"
	logActionReserveCopy     = "reserve book copy"
	logActionReleaseCopy     = "release book copy"
	logActionCountActive     = "count active loans"
	logActionLoanByID        = "loan by id"
	logActionInsertLoan      = "insert loan"
	logActionFinishLoan      = "finish loan"
	logActionOverdueLoans    = "overdue loans check"
	logActionLoansByBorrower = "loans by borrower"
	logActionAppendJournal   = "append journal entry"
)

// transaction implements ledger.Transaction on top of one adapters.DBTx.
type transaction struct {
	db    adapters.DBTx
	store Store
}

// BookByID returns the book or lending.ErrBookNotFound.
func (t transaction) BookByID(ctx context.Context, bookID uuid.UUID) (lending.Book, error) {
	var empty lending.Book

	selectStmt := goqu.Dialect(dialectPostgres).
		From(t.store.booksTable).
		Select(
			goqu.L(castIDText),
			goqu.C(colTitle), goqu.C(colAuthor), goqu.C(colYearPublished), goqu.C(colCategory),
			goqu.C(colTotalCopies), goqu.C(colAvailableCopies), goqu.C(colImageURL),
		).
		Where(goqu.Ex{colID: bookID.String()})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return empty, t.buildQueryError(toSQLErr)
	}

	rows, queryErr := t.executeQuery(ctx, sqlQuery, logActionBookByID)
	if queryErr != nil {
		return empty, queryErr
	}
	defer t.closeRows(rows)

	if !rows.Next() {
		return empty, lending.ErrBookNotFound
	}

	var idStr, category string
	book := lending.Book{}

	scanErr := rows.Scan(
		&idStr,
		&book.Title, &book.Author, &book.YearPublished, &category,
		&book.TotalCopies, &book.AvailableCopies, &book.ImageURL,
	)
	if scanErr != nil {
		return empty, t.scanRowError(scanErr)
	}

	id, parseErr := uuid.Parse(idStr)
	if parseErr != nil {
		return empty, t.scanRowError(parseErr)
	}

	book.ID = id
	book.Category = lending.Category(category)

	return book, nil
}

// InsertBook adds a new catalog entry.
func (t transaction) InsertBook(ctx context.Context, book lending.Book) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(t.store.booksTable).
		Rows(goqu.Record{
			colID:              book.ID.String(),
			colTitle:           book.Title,
			colAuthor:          book.Author,
			colYearPublished:   book.YearPublished,
			colCategory:        string(book.Category),
			colTotalCopies:     book.TotalCopies,
			colAvailableCopies: book.AvailableCopies,
			colImageURL:        book.ImageURL,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	_, execErr := t.executeStmt(ctx, sqlQuery, logActionInsertBook)

	return execErr
}

// DeleteBook removes a book, guarded on no unreturned loans referencing it.
// The guard is part of the DELETE statement, so a loan inserted by a
// concurrent borrow cannot be orphaned by this deletion.
func (t transaction) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(t.store.booksTable).
		Where(
			goqu.Ex{colID: bookID.String()},
			goqu.L(
				"NOT EXISTS (SELECT 1 FROM "+t.store.loansTable+" WHERE "+colBookID+" = ? AND "+colReturned+" = FALSE)",
				bookID.String(),
			),
		)

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	rowsAffected, execErr := t.executeStmt(ctx, sqlQuery, logActionDeleteBook)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		// Guard failed: either the book is gone or it still has open loans.
		if _, lookupErr := t.BookByID(ctx, bookID); lookupErr != nil {
			return lookupErr
		}

		return lending.ErrBookHasActiveLoans
	}

	return nil
}

// ReserveBookCopy applies the conditional decrement-if-positive.
// Zero rows affected is the authoritative out-of-stock answer at the commit point.
func (t transaction) ReserveBookCopy(ctx context.Context, bookID uuid.UUID) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(t.store.booksTable).
		Set(goqu.Record{colAvailableCopies: goqu.L(colAvailableCopies + " - 1")}).
		Where(
			goqu.Ex{colID: bookID.String()},
			goqu.C(colAvailableCopies).Gt(0),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	rowsAffected, execErr := t.executeStmt(ctx, sqlQuery, logActionReserveCopy)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		// Guard failed: either the book is gone or no copy is available.
		if _, lookupErr := t.BookByID(ctx, bookID); lookupErr != nil {
			return lookupErr
		}

		return lending.ErrOutOfStock
	}

	return nil
}

// ReleaseBookCopy applies the conditional increment, capped at the total copy count.
func (t transaction) ReleaseBookCopy(ctx context.Context, bookID uuid.UUID) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(t.store.booksTable).
		Set(goqu.Record{colAvailableCopies: goqu.L(colAvailableCopies + " + 1")}).
		Where(
			goqu.Ex{colID: bookID.String()},
			goqu.C(colAvailableCopies).Lt(goqu.C(colTotalCopies)),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	rowsAffected, execErr := t.executeStmt(ctx, sqlQuery, logActionReleaseCopy)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		if _, lookupErr := t.BookByID(ctx, bookID); lookupErr != nil {
			return lookupErr
		}

		return ledger.ErrReleaseExceedsTotalCopies
	}

	return nil
}

// CountActiveLoans returns the number of unreturned loans for the book.
func (t transaction) CountActiveLoans(ctx context.Context, bookID uuid.UUID) (int, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(t.store.loansTable).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{colBookID: bookID.String(), colReturned: false})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return 0, t.buildQueryError(toSQLErr)
	}

	return t.queryCount(ctx, sqlQuery, logActionCountActive)
}

// LoanByID returns the loan or lending.ErrLoanNotFound.
func (t transaction) LoanByID(ctx context.Context, loanID uuid.UUID) (lending.Loan, error) {
	var empty lending.Loan

	sqlQuery, toSQLErr := t.buildSelectLoans(goqu.Ex{colID: loanID.String()})
	if toSQLErr != nil {
		return empty, t.buildQueryError(toSQLErr)
	}

	loans, queryErr := t.queryLoans(ctx, sqlQuery, logActionLoanByID)
	if queryErr != nil {
		return empty, queryErr
	}

	if len(loans) == 0 {
		return empty, lending.ErrLoanNotFound
	}

	return loans[0], nil
}

// InsertLoan adds a new open loan.
func (t transaction) InsertLoan(ctx context.Context, loan lending.Loan) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(t.store.loansTable).
		Rows(goqu.Record{
			colID:         loan.ID.String(),
			colBorrowerID: loan.BorrowerID.String(),
			colBookID:     loan.BookID.String(),
			colLoanType:   int(loan.Type),
			colBorrowedAt: loan.BorrowedAt,
			colDueDate:    loan.DueDate,
			colReturned:   false,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	_, execErr := t.executeStmt(ctx, sqlQuery, logActionInsertLoan)

	return execErr
}

// FinishLoan flips the returned flag exactly once, guarded on it being false.
func (t transaction) FinishLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(t.store.loansTable).
		Set(goqu.Record{
			colReturned:   true,
			colReturnedAt: returnedAt,
		}).
		Where(goqu.Ex{colID: loanID.String(), colReturned: false})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	rowsAffected, execErr := t.executeStmt(ctx, sqlQuery, logActionFinishLoan)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return lending.ErrAlreadyReturned
	}

	return nil
}

// HasOverdueLoans reports whether the borrower holds any unreturned loan past its due date.
func (t transaction) HasOverdueLoans(ctx context.Context, borrowerID uuid.UUID, asOf time.Time) (bool, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(t.store.loansTable).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.Ex{colBorrowerID: borrowerID.String(), colReturned: false},
			goqu.C(colDueDate).Lt(lending.DateOf(asOf)),
		)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return false, t.buildQueryError(toSQLErr)
	}

	count, queryErr := t.queryCount(ctx, sqlQuery, logActionOverdueLoans)
	if queryErr != nil {
		return false, queryErr
	}

	return count > 0, nil
}

// LoansByBorrower returns the borrower's loans, oldest first.
func (t transaction) LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	sqlQuery, toSQLErr := t.buildSelectLoans(goqu.Ex{colBorrowerID: borrowerID.String()})
	if toSQLErr != nil {
		return nil, t.buildQueryError(toSQLErr)
	}

	return t.queryLoans(ctx, sqlQuery, logActionLoansByBorrower)
}

// AppendJournalEntry appends an audit record to the lending journal.
func (t transaction) AppendJournalEntry(ctx context.Context, entry ledger.JournalEntry) error {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(t.store.journalTable).
		Rows(goqu.Record{
			colEntryType:  entry.EntryType,
			colOccurredAt: entry.OccurredAt,
			colPayload:    goqu.L(castJsonb, string(entry.PayloadJSON)),
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return t.buildQueryError(toSQLErr)
	}

	_, execErr := t.executeStmt(ctx, sqlQuery, logActionAppendJournal)

	return execErr
}

// buildSelectLoans builds the loan select for the given where expression, oldest loans first.
func (t transaction) buildSelectLoans(where goqu.Ex) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(t.store.loansTable).
		Select(
			goqu.L(castIDText),
			goqu.L(colBorrowerID+"::text"),
			goqu.L(colBookID+"::text"),
			goqu.C(colLoanType), goqu.C(colBorrowedAt), goqu.C(colDueDate),
			goqu.C(colReturned), goqu.C(colReturnedAt),
		).
		Where(where).
		Order(goqu.I(colBorrowedAt).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()

	return sqlQuery, toSQLErr
}

// queryLoans executes a loan select and scans all result rows.
func (t transaction) queryLoans(ctx context.Context, sqlQuery string, action string) ([]lending.Loan, error) {
	rows, queryErr := t.executeQuery(ctx, sqlQuery, action)
	if queryErr != nil {
		return nil, queryErr
	}
	defer t.closeRows(rows)

	loans := make([]lending.Loan, 0)

	for rows.Next() {
		var idStr, borrowerStr, bookStr string
		var loanType int
		var returnedAt *time.Time
		loan := lending.Loan{}

		scanErr := rows.Scan(
			&idStr, &borrowerStr, &bookStr,
			&loanType, &loan.BorrowedAt, &loan.DueDate,
			&loan.Returned, &returnedAt,
		)
		if scanErr != nil {
			return nil, t.scanRowError(scanErr)
		}

		id, idErr := uuid.Parse(idStr)
		borrowerID, borrowerErr := uuid.Parse(borrowerStr)
		bookID, bookErr := uuid.Parse(bookStr)

		if joinedErr := errors.Join(idErr, borrowerErr, bookErr); joinedErr != nil {
			return nil, t.scanRowError(joinedErr)
		}

		loan.ID = id
		loan.BorrowerID = borrowerID
		loan.BookID = bookID
		loan.Type = lending.LoanType(loanType)

		if returnedAt != nil {
			loan.ReturnedAt = *returnedAt
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

// queryCount executes a COUNT select and scans the single result value.
func (t transaction) queryCount(ctx context.Context, sqlQuery string, action string) (int, error) {
	rows, queryErr := t.executeQuery(ctx, sqlQuery, action)
	if queryErr != nil {
		return 0, queryErr
	}
	defer t.closeRows(rows)

	var count int64

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			return 0, t.scanRowError(scanErr)
		}
	}

	return int(count), nil
}

// executeQuery executes a select statement with timing and debug logging.
func (t transaction) executeQuery(ctx context.Context, sqlQuery string, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := t.db.Query(ctx, sqlQuery)
	t.store.logQueryWithDuration(sqlQuery, action, time.Since(start))

	if queryErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, errors.Join(ledger.ErrQueryingLedgerFailed, queryErr)
	}

	return rows, nil
}

// executeStmt executes a mutating statement with timing and debug logging, returning rows affected.
func (t transaction) executeStmt(ctx context.Context, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	result, execErr := t.db.Exec(ctx, sqlQuery)
	t.store.logQueryWithDuration(sqlQuery, action, time.Since(start))

	if execErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, errors.Join(ledger.ErrExecutingStmtFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		}

		return 0, errors.Join(ledger.ErrExecutingStmtFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (t transaction) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if t.store.logger != nil {
			t.store.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (t transaction) buildQueryError(err error) error {
	if t.store.logger != nil {
		t.store.logger.Error(logMsgBuildQueryFailed, logAttrError, err.Error())
	}

	return errors.Join(ledger.ErrBuildingQueryFailed, err)
}

func (t transaction) scanRowError(err error) error {
	if t.store.logger != nil {
		t.store.logger.Error(logMsgScanRowFailed, logAttrError, err.Error())
	}

	return errors.Join(ledger.ErrScanningDBRowFailed, err)
}
