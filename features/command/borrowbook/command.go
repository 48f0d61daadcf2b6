package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/circulib/lending-go/lending"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent to borrow one copy of a book.
// It encapsulates all the necessary information required to execute the borrow book use case.
type Command struct {
	BookID     uuid.UUID
	BorrowerID uuid.UUID
	LoanType   lending.LoanType
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, borrowerID uuid.UUID, loanType lending.LoanType, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		BorrowerID: borrowerID,
		LoanType:   loanType,
		OccurredAt: occurredAt,
	}
}
