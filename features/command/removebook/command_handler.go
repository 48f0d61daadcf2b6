package removebook

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

// CommandHandler orchestrates the complete command processing workflow with retry.
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
// Returns a HandlerResult containing business outcomes and execution metadata
// for observability.
//
// A book with unreturned loans is never removed; the refusal is committed to
// the journal and reported with Denied set. Only concurrency conflicts are retried.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var businessErr error

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		attemptBusinessErr, execErr := h.executeCommand(retryCtx, command)
		businessErr = attemptBusinessErr

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if businessErr != nil {
		return shell.NewDeniedResult(retryMetrics), businessErr
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (error, error) {
	var businessErr error

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		// The guarded delete refuses books with unreturned loans at the commit point.
		if deleteErr := tx.DeleteBook(txCtx, command.BookID); deleteErr != nil {
			if errors.Is(deleteErr, lending.ErrBookNotFound) || errors.Is(deleteErr, lending.ErrBookHasActiveLoans) {
				businessErr = deleteErr

				return journalDenial(txCtx, tx, command, deleteErr)
			}

			return deleteErr
		}

		entry, entryErr := shell.JournalEntryFromPayload(
			BookRemovedEntryType,
			command.OccurredAt,
			buildBookRemovedPayload(command),
		)
		if entryErr != nil {
			return entryErr
		}

		return tx.AppendJournalEntry(txCtx, entry)
	})

	if txErr != nil {
		return nil, txErr
	}

	return businessErr, nil
}

// journalDenial appends a failure entry and returns nil so the transaction
// commits: a denial journals its refusal but mutates nothing else.
func journalDenial(ctx context.Context, tx ledger.Transaction, command Command, denial error) error {
	entry, entryErr := shell.JournalEntryFromPayload(
		RemovingBookFailedEntryType,
		command.OccurredAt,
		buildRemovingBookFailedPayload(command, denial),
	)
	if entryErr != nil {
		return entryErr
	}

	return tx.AppendJournalEntry(ctx, entry)
}
