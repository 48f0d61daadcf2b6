package returnbook

import (
	"time"

	"github.com/circulib/lending-go/lending"
)

// BookReturnedEntryType is the journal entry type for a successful return.
const BookReturnedEntryType = "BookReturned"

// ReturningBookFailedEntryType is the journal entry type for a refused return.
const ReturningBookFailedEntryType = "ReturningBookFailed"

// bookReturnedPayload is the journal payload for a successful return.
type bookReturnedPayload struct {
	LoanID     string
	BookID     string
	BorrowerID string
	ReturnedAt time.Time
	WasOverdue bool
}

// returningBookFailedPayload is the journal payload for a refused return.
type returningBookFailedPayload struct {
	LoanID           string
	ActingBorrowerID string
	ErrorCode        string
	Reason           string
}

func buildBookReturnedPayload(loan lending.Loan, returnedAt time.Time) bookReturnedPayload {
	return bookReturnedPayload{
		LoanID:     loan.ID.String(),
		BookID:     loan.BookID.String(),
		BorrowerID: loan.BorrowerID.String(),
		ReturnedAt: returnedAt,
		WasOverdue: loan.IsOverdue(returnedAt),
	}
}

func buildReturningBookFailedPayload(command Command, denial error) returningBookFailedPayload {
	return returningBookFailedPayload{
		LoanID:           command.LoanID.String(),
		ActingBorrowerID: command.ActingBorrowerID.String(),
		ErrorCode:        lending.CodeOf(denial),
		Reason:           denial.Error(),
	}
}
