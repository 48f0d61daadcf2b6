package borrowbook

import (
	"time"

	"github.com/circulib/lending-go/lending"
)

// BookBorrowedEntryType is the journal entry type for a successful borrow.
const BookBorrowedEntryType = "BookBorrowed"

// BorrowingBookFailedEntryType is the journal entry type for a refused borrow.
const BorrowingBookFailedEntryType = "BorrowingBookFailed"

// bookBorrowedPayload is the journal payload for a successful borrow.
type bookBorrowedPayload struct {
	LoanID     string
	BookID     string
	BorrowerID string
	LoanType   int
	DueDate    time.Time
}

// borrowingBookFailedPayload is the journal payload for a refused borrow.
type borrowingBookFailedPayload struct {
	BookID     string
	BorrowerID string
	ErrorCode  string
	Reason     string
}

func buildBookBorrowedPayload(loan lending.Loan) bookBorrowedPayload {
	return bookBorrowedPayload{
		LoanID:     loan.ID.String(),
		BookID:     loan.BookID.String(),
		BorrowerID: loan.BorrowerID.String(),
		LoanType:   int(loan.Type),
		DueDate:    loan.DueDate,
	}
}

func buildBorrowingBookFailedPayload(command Command, denial error) borrowingBookFailedPayload {
	return borrowingBookFailedPayload{
		BookID:     command.BookID.String(),
		BorrowerID: command.BorrowerID.String(),
		ErrorCode:  lending.CodeOf(denial),
		Reason:     denial.Error(),
	}
}
