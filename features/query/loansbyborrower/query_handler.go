package loansbyborrower

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
// It reads the borrower's loans and the referenced books in one transaction,
// so the listing is a consistent snapshot.
type QueryHandler struct {
	ledger Ledger
}

// NewQueryHandler creates a new QueryHandler with the provided Ledger dependency.
func NewQueryHandler(lendingLedger Ledger) QueryHandler {
	return QueryHandler{
		ledger: lendingLedger,
	}
}

// Handle lists the borrower's loans, oldest first.
//
// A completed loan may outlive its book's catalog entry; such loans keep
// their identifiers but carry empty catalog fields.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowerLoans, error) {
	var result BorrowerLoans

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		loans, loansErr := tx.LoansByBorrower(txCtx, query.BorrowerID)
		if loansErr != nil {
			return loansErr
		}

		infos := make([]LoanInfo, 0, len(loans))

		for _, loan := range loans {
			book, bookErr := tx.BookByID(txCtx, loan.BookID)
			if bookErr != nil && !errors.Is(bookErr, lending.ErrBookNotFound) {
				return bookErr
			}

			infos = append(infos, buildLoanInfo(loan, book, query.AsOf))
		}

		result = BorrowerLoans{
			BorrowerID: query.BorrowerID.String(),
			Loans:      infos,
			Count:      len(infos),
		}

		return nil
	})

	if txErr != nil {
		return BorrowerLoans{}, txErr
	}

	return result, nil
}
