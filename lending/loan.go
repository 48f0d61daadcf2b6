package lending

import (
	"time"

	"github.com/google/uuid"
)

// Loan records one copy of a book reserved by a borrower for a bounded period.
//
// BorrowedAt and DueDate are immutable once set. Returned is monotonic: it
// flips from false to true exactly once, stamping ReturnedAt, and is never
// reversed. Every unreturned loan corresponds to exactly one reserved copy
// of its book.
type Loan struct {
	ID         uuid.UUID
	BorrowerID uuid.UUID
	BookID     uuid.UUID
	Type       LoanType
	BorrowedAt time.Time
	DueDate    time.Time
	Returned   bool
	ReturnedAt time.Time
}

// BuildLoan creates a new open loan with the due date derived from the loan type.
func BuildLoan(
	id uuid.UUID,
	borrowerID uuid.UUID,
	bookID uuid.UUID,
	loanType LoanType,
	borrowedAt time.Time,
) Loan {

	loan := Loan{
		ID:         id,
		BorrowerID: borrowerID,
		BookID:     bookID,
		Type:       loanType,
		BorrowedAt: borrowedAt,
		DueDate:    DueDateFor(loanType, borrowedAt),
	}

	return loan
}

// IsOverdue reports whether the loan is unreturned past its due date, as of the given time.
func (l Loan) IsOverdue(asOf time.Time) bool {
	return !l.Returned && l.DueDate.Before(DateOf(asOf))
}

// Finish returns a copy of the loan marked as returned at the given time.
// It does not check the Returned flag - the ledger's conditional update is
// the authority on whether the flip actually happens.
func (l Loan) Finish(at time.Time) Loan {
	l.Returned = true
	l.ReturnedAt = at

	return l
}

// StatusMessage returns a borrower-facing status line for the loan.
func (l Loan) StatusMessage(asOf time.Time) string {
	if l.Returned {
		return "Loan is completed."
	}

	if l.IsOverdue(asOf) {
		return "Overdue! Please return this book immediately."
	}

	return "Loan is active."
}
