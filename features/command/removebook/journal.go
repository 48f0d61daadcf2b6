package removebook

import (
	"github.com/circulib/lending-go/lending"
)

// BookRemovedEntryType is the journal entry type for a successful removal.
const BookRemovedEntryType = "BookRemoved"

// RemovingBookFailedEntryType is the journal entry type for a refused removal.
const RemovingBookFailedEntryType = "RemovingBookFailed"

// bookRemovedPayload is the journal payload for a successful removal.
type bookRemovedPayload struct {
	BookID string
}

// removingBookFailedPayload is the journal payload for a refused removal.
type removingBookFailedPayload struct {
	BookID    string
	ErrorCode string
	Reason    string
}

func buildBookRemovedPayload(command Command) bookRemovedPayload {
	return bookRemovedPayload{
		BookID: command.BookID.String(),
	}
}

func buildRemovingBookFailedPayload(command Command, denial error) removingBookFailedPayload {
	return removingBookFailedPayload{
		BookID:    command.BookID.String(),
		ErrorCode: lending.CodeOf(denial),
		Reason:    denial.Error(),
	}
}
