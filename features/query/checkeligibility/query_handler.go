package checkeligibility

import (
	"context"
	"errors"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/lending"
)

// Ledger defines the interface needed by the QueryHandler for ledger operations.
type Ledger interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx ledger.Transaction) error) error
}

// QueryHandler orchestrates the complete query processing workflow.
// It reads the borrower's and book's state in one transaction and evaluates
// the borrow rules against that consistent snapshot.
type QueryHandler struct {
	ledger Ledger
}

// NewQueryHandler creates a new QueryHandler with the provided Ledger dependency.
func NewQueryHandler(lendingLedger Ledger) QueryHandler {
	return QueryHandler{
		ledger: lendingLedger,
	}
}

// Handle answers whether the borrower may borrow the book right now.
//
// The rules evaluate in the borrow use case's order: unresolvable book,
// then overdue loans, then stock. The report is advisory - only a borrow
// command reserves a copy, and its own transaction re-validates everything.
func (h QueryHandler) Handle(ctx context.Context, query Query) (EligibilityReport, error) {
	var report EligibilityReport

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		book, bookErr := tx.BookByID(txCtx, query.BookID)
		if bookErr != nil {
			if errors.Is(bookErr, lending.ErrBookNotFound) {
				report = buildDeniedReport(query, bookErr)

				return nil
			}

			return bookErr
		}

		hasOverdue, overdueErr := tx.HasOverdueLoans(txCtx, query.BorrowerID, query.AsOf)
		if overdueErr != nil {
			return overdueErr
		}

		switch {
		case hasOverdue:
			report = buildDeniedReport(query, lending.ErrHasOverdue)
		case book.IsOutOfStock():
			report = buildDeniedReport(query, lending.ErrOutOfStock)
		default:
			report = buildAllowedReport(query)
		}

		return nil
	})

	if txErr != nil {
		return EligibilityReport{}, txErr
	}

	return report, nil
}
