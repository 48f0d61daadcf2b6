package borrowbook

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/lending"
	"github.com/circulib/lending-go/shared/shell"
)

// Ledger defines the interface needed by the CommandHandler for ledger operations.
type Ledger interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx ledger.Transaction) error) error
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core workflow inside one transaction: Query -> Decide -> Commit.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	ledger       Ledger
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(lendingLedger Ledger, opts ...Option) CommandHandler {
	handler := CommandHandler{
		ledger: lendingLedger,
		// retryOptions defaults to nil (will use retry defaults)
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// It delegates business logic to executeCommand and handles retry with exponential backoff.
// Returns the opened loan on success, and a HandlerResult containing business
// outcomes and execution metadata for observability.
//
// Business denials are committed to the journal and reported with Denied set;
// they are final and never retried. Only concurrency conflicts are retried.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Loan, shell.HandlerResult, error) {
	var loan lending.Loan
	var businessErr error

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		attemptLoan, attemptBusinessErr, execErr := h.executeCommand(retryCtx, command)
		loan, businessErr = attemptLoan, attemptBusinessErr

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return lending.Loan{}, shell.NewErrorResult(retryMetrics), err
	}

	if businessErr != nil {
		return lending.Loan{}, shell.NewDeniedResult(retryMetrics), businessErr
	}

	return loan, shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
// It returns the opened loan, a business denial (committed, final), or an
// infrastructure error (rolled back, possibly retryable).
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.Loan, error, error) {
	var loan lending.Loan
	var businessErr error

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		// Query phase
		book, bookErr := tx.BookByID(txCtx, command.BookID)
		if bookErr != nil {
			if errors.Is(bookErr, lending.ErrBookNotFound) {
				businessErr = bookErr

				return journalDenial(txCtx, tx, command, bookErr)
			}

			return bookErr
		}

		hasOverdue, overdueErr := tx.HasOverdueLoans(txCtx, command.BorrowerID, command.OccurredAt)
		if overdueErr != nil {
			return overdueErr
		}

		// Business logic phase - delegate to pure core function
		result := Decide(Snapshot{Book: book, BorrowerHasOverdueLoans: hasOverdue}, command)

		if denial := result.HasError(); denial != nil {
			businessErr = denial

			return journalDenial(txCtx, tx, command, denial)
		}

		// Commit phase - the guarded decrement re-validates stock at the commit point
		if reserveErr := tx.ReserveBookCopy(txCtx, command.BookID); reserveErr != nil {
			if errors.Is(reserveErr, lending.ErrOutOfStock) {
				businessErr = reserveErr

				return journalDenial(txCtx, tx, command, reserveErr)
			}

			return reserveErr
		}

		loan = lending.BuildLoan(uuid.New(), command.BorrowerID, command.BookID, command.LoanType, command.OccurredAt)

		if insertErr := tx.InsertLoan(txCtx, loan); insertErr != nil {
			return insertErr
		}

		entry, entryErr := shell.JournalEntryFromPayload(
			BookBorrowedEntryType,
			command.OccurredAt,
			buildBookBorrowedPayload(loan),
		)
		if entryErr != nil {
			return entryErr
		}

		return tx.AppendJournalEntry(txCtx, entry)
	})

	if txErr != nil {
		return lending.Loan{}, nil, txErr
	}

	return loan, businessErr, nil
}

// journalDenial appends a failure entry and returns nil so the transaction
// commits: a denial journals its refusal but mutates nothing else.
func journalDenial(ctx context.Context, tx ledger.Transaction, command Command, denial error) error {
	entry, entryErr := shell.JournalEntryFromPayload(
		BorrowingBookFailedEntryType,
		command.OccurredAt,
		buildBorrowingBookFailedPayload(command, denial),
	)
	if entryErr != nil {
		return entryErr
	}

	return tx.AppendJournalEntry(ctx, entry)
}
