package returnbook

import (
	"time"

	"github.com/google/uuid"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to return a borrowed book.
// It encapsulates all the necessary information required to execute the return book use case.
type Command struct {
	LoanID           uuid.UUID
	ActingBorrowerID uuid.UUID
	AdminOverride    bool
	OccurredAt       time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, actingBorrowerID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:           loanID,
		ActingBorrowerID: actingBorrowerID,
		OccurredAt:       occurredAt,
	}
}

// BuildAdminCommand creates a new Command that may return any borrower's loan.
func BuildAdminCommand(loanID uuid.UUID, actingBorrowerID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:           loanID,
		ActingBorrowerID: actingBorrowerID,
		AdminOverride:    true,
		OccurredAt:       occurredAt,
	}
}
