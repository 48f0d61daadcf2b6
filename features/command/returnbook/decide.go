package returnbook

import (
	"github.com/circulib/lending-go/lending"
)

// Snapshot represents the state read inside the return transaction,
// as of the moment the decision is made.
type Snapshot struct {
	Loan lending.Loan
}

// Decide implements the business logic to determine whether a loan may be completed.
// This is a pure function with no side effects - it takes a snapshot of the current state
// and a command and returns the decision based on the business rules.
//
// Business Rules:
//
//	GIVEN: An open loan with LoanID
//	WHEN: ReturnBook command is received
//	THEN: The loan completes and its reserved copy is released
//	ERROR: "loan was already returned" if the loan already completed
//	ERROR: "loan belongs to another borrower" if the acting borrower does not
//	       hold the loan and no admin override is set
//
// The already-returned check wins over the ownership check when both would refuse.
func Decide(snapshot Snapshot, command Command) lending.DecisionResult {
	if snapshot.Loan.Returned {
		return lending.ErrorDecision(lending.ErrAlreadyReturned)
	}

	if snapshot.Loan.BorrowerID != command.ActingBorrowerID && !command.AdminOverride {
		return lending.ErrorDecision(lending.ErrForbidden)
	}

	return lending.SuccessDecision()
}
