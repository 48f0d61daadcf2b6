package returnbook

import (
	"context"
	"errors"

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
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// It delegates business logic to executeCommand and handles retry with exponential backoff.
// Returns the completed loan on success, and a HandlerResult containing business
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
// It returns the completed loan, a business denial (committed, final), or an
// infrastructure error (rolled back, possibly retryable).
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.Loan, error, error) {
	var loan lending.Loan
	var businessErr error

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		// Query phase
		openLoan, loanErr := tx.LoanByID(txCtx, command.LoanID)
		if loanErr != nil {
			if errors.Is(loanErr, lending.ErrLoanNotFound) {
				businessErr = loanErr

				return journalDenial(txCtx, tx, command, loanErr)
			}

			return loanErr
		}

		// Business logic phase - delegate to pure core function
		result := Decide(Snapshot{Loan: openLoan}, command)

		if denial := result.HasError(); denial != nil {
			businessErr = denial

			return journalDenial(txCtx, tx, command, denial)
		}

		// Commit phase - the guarded flip re-validates the returned flag at the commit point
		if finishErr := tx.FinishLoan(txCtx, command.LoanID, command.OccurredAt); finishErr != nil {
			if errors.Is(finishErr, lending.ErrAlreadyReturned) {
				businessErr = finishErr

				return journalDenial(txCtx, tx, command, finishErr)
			}

			return finishErr
		}

		if releaseErr := tx.ReleaseBookCopy(txCtx, openLoan.BookID); releaseErr != nil {
			return releaseErr
		}

		loan = openLoan.Finish(command.OccurredAt)

		entry, entryErr := shell.JournalEntryFromPayload(
			BookReturnedEntryType,
			command.OccurredAt,
			buildBookReturnedPayload(openLoan, command.OccurredAt),
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
		ReturningBookFailedEntryType,
		command.OccurredAt,
		buildReturningBookFailedPayload(command, denial),
	)
	if entryErr != nil {
		return entryErr
	}

	return tx.AppendJournalEntry(ctx, entry)
}
