package addbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/lending"
	"github.com/circulib/lending-go/shared/shell"
)

// Ledger defines the interface needed by the CommandHandler for ledger operations.
type Ledger interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx ledger.Transaction) error) error
}

// CommandHandler orchestrates the complete command processing workflow with retry.
// Validation happens in the domain factory; the transaction only inserts the
// book and journals the registration.
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
// Returns the registered book on success, and a HandlerResult containing
// business outcomes and execution metadata for observability.
//
// Validation denials are committed to the journal and reported with Denied
// set; they are final and never retried. Only concurrency conflicts are retried.
func (h CommandHandler) Handle(ctx context.Context, command Command) (lending.Book, shell.HandlerResult, error) {
	var book lending.Book
	var businessErr error

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		attemptBook, attemptBusinessErr, execErr := h.executeCommand(retryCtx, command)
		book, businessErr = attemptBook, attemptBusinessErr

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return lending.Book{}, shell.NewErrorResult(retryMetrics), err
	}

	if businessErr != nil {
		return lending.Book{}, shell.NewDeniedResult(retryMetrics), businessErr
	}

	return book, shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (lending.Book, error, error) {
	var book lending.Book
	var businessErr error

	txErr := h.ledger.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		newBook, buildErr := lending.BuildBook(
			uuid.New(),
			command.Title,
			command.Author,
			command.YearPublished,
			command.Category,
			command.Copies,
			command.ImageURL,
		)
		if buildErr != nil {
			businessErr = buildErr

			return journalDenial(txCtx, tx, command, buildErr)
		}

		if insertErr := tx.InsertBook(txCtx, newBook); insertErr != nil {
			return insertErr
		}

		book = newBook

		entry, entryErr := shell.JournalEntryFromPayload(
			BookAddedEntryType,
			command.OccurredAt,
			buildBookAddedPayload(newBook),
		)
		if entryErr != nil {
			return entryErr
		}

		return tx.AppendJournalEntry(txCtx, entry)
	})

	if txErr != nil {
		return lending.Book{}, nil, txErr
	}

	return book, businessErr, nil
}

// journalDenial appends a failure entry and returns nil so the transaction
// commits: a denial journals its refusal but mutates nothing else.
func journalDenial(ctx context.Context, tx ledger.Transaction, command Command, denial error) error {
	entry, entryErr := shell.JournalEntryFromPayload(
		AddingBookFailedEntryType,
		command.OccurredAt,
		buildAddingBookFailedPayload(command, denial),
	)
	if entryErr != nil {
		return entryErr
	}

	return tx.AppendJournalEntry(ctx, entry)
}
