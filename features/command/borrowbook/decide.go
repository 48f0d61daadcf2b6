package borrowbook

import (
	"github.com/circulib/lending-go/lending"
)

// Snapshot represents the state read inside the borrow transaction,
// as of the moment the decision is made.
type Snapshot struct {
	Book                    lending.Book
	BorrowerHasOverdueLoans bool
}

// Decide implements the business logic to determine whether a borrower may borrow a book.
// This is a pure function with no side effects - it takes a snapshot of the current state
// and a command and returns the decision based on the business rules.
//
// Business Rules:
//
//	GIVEN: A book with BookID and borrower with BorrowerID
//	WHEN: BorrowBook command is received
//	THEN: A new loan is opened and one copy is reserved
//	ERROR: "borrower has overdue loans" if any of the borrower's loans is overdue
//	ERROR: "book is out of stock" if no copy is available
//
// The overdue check wins over the stock check when both would refuse.
func Decide(snapshot Snapshot, _ Command) lending.DecisionResult {
	if snapshot.BorrowerHasOverdueLoans {
		return lending.ErrorDecision(lending.ErrHasOverdue)
	}

	if snapshot.Book.IsOutOfStock() {
		return lending.ErrorDecision(lending.ErrOutOfStock)
	}

	return lending.SuccessDecision()
}
