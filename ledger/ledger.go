package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/circulib/lending-go/lending"
)

// Store is the transactional boundary of the lending ledger.
//
// InTransaction runs fn inside one atomic unit of work: if fn returns an
// error the transaction is rolled back and the error is returned, otherwise
// the transaction is committed. Mutations are never visible to concurrent
// observers before commit. A commit lost to a concurrent writer surfaces as
// ErrConcurrencyConflict, which callers may retry.
type Store interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction is the set of ledger operations available inside one atomic unit of work.
//
// The conditional mutations (ReserveBookCopy, ReleaseBookCopy, FinishLoan,
// DeleteBook) carry their own guard and report the business error when the
// guard fails, so a stale earlier read can never corrupt the copy counter.
type Transaction interface {
	// BookByID returns the book or lending.ErrBookNotFound.
	BookByID(ctx context.Context, bookID uuid.UUID) (lending.Book, error)

	// InsertBook adds a new catalog entry.
	InsertBook(ctx context.Context, book lending.Book) error

	// DeleteBook removes a book that has no unreturned loans.
	// Returns lending.ErrBookNotFound or lending.ErrBookHasActiveLoans.
	DeleteBook(ctx context.Context, bookID uuid.UUID) error

	// ReserveBookCopy decrements the book's available copies if at least one
	// copy is available. Returns lending.ErrOutOfStock when the guarded
	// decrement affects no row, which is the authoritative out-of-stock
	// answer at the commit point.
	ReserveBookCopy(ctx context.Context, bookID uuid.UUID) error

	// ReleaseBookCopy increments the book's available copies, capped at the
	// total copy count. Returns ErrReleaseExceedsTotalCopies if the guard
	// fails - that would mean a copy was double-released.
	ReleaseBookCopy(ctx context.Context, bookID uuid.UUID) error

	// CountActiveLoans returns the number of unreturned loans for the book.
	CountActiveLoans(ctx context.Context, bookID uuid.UUID) (int, error)

	// LoanByID returns the loan or lending.ErrLoanNotFound.
	LoanByID(ctx context.Context, loanID uuid.UUID) (lending.Loan, error)

	// InsertLoan adds a new open loan.
	InsertLoan(ctx context.Context, loan lending.Loan) error

	// FinishLoan flips the loan's returned flag and stamps the completion
	// time, guarded on the flag still being false. Returns
	// lending.ErrAlreadyReturned when the guard fails, so the flip and the
	// subsequent copy release apply exactly once per loan.
	FinishLoan(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error

	// HasOverdueLoans reports whether the borrower holds any unreturned loan
	// whose due date lies before the given time's date.
	HasOverdueLoans(ctx context.Context, borrowerID uuid.UUID, asOf time.Time) (bool, error)

	// LoansByBorrower returns the borrower's loans, oldest first.
	LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]lending.Loan, error)

	// AppendJournalEntry appends an audit record to the lending journal.
	AppendJournalEntry(ctx context.Context, entry JournalEntry) error
}
