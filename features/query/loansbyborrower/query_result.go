package loansbyborrower

import (
	"time"

	"github.com/circulib/lending-go/lending"
)

// LoanInfo represents one loan in a borrower's history, enriched with the
// book's catalog data and a status line.
type LoanInfo struct {
	LoanID     string
	BookID     string
	Title      string
	Author     string
	LoanType   lending.LoanType
	BorrowedAt time.Time
	DueDate    time.Time
	Returned   bool
	ReturnedAt time.Time
	Overdue    bool
	Status     string
}

// BorrowerLoans represents the query result containing a borrower's loans, oldest first.
type BorrowerLoans struct {
	BorrowerID string
	Loans      []LoanInfo
	Count      int
}

func buildLoanInfo(loan lending.Loan, book lending.Book, asOf time.Time) LoanInfo {
	return LoanInfo{
		LoanID:     loan.ID.String(),
		BookID:     loan.BookID.String(),
		Title:      book.Title,
		Author:     book.Author,
		LoanType:   loan.Type,
		BorrowedAt: loan.BorrowedAt,
		DueDate:    loan.DueDate,
		Returned:   loan.Returned,
		ReturnedAt: loan.ReturnedAt,
		Overdue:    loan.IsOverdue(asOf),
		Status:     loan.StatusMessage(asOf),
	}
}
