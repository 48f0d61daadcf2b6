package addbook

import (
	"github.com/circulib/lending-go/lending"
)

// BookAddedEntryType is the journal entry type for a successful registration.
const BookAddedEntryType = "BookAdded"

// AddingBookFailedEntryType is the journal entry type for a refused registration.
const AddingBookFailedEntryType = "AddingBookFailed"

// bookAddedPayload is the journal payload for a successful registration.
type bookAddedPayload struct {
	BookID      string
	Title       string
	Author      string
	Category    string
	TotalCopies int
}

// addingBookFailedPayload is the journal payload for a refused registration.
type addingBookFailedPayload struct {
	Title     string
	Author    string
	ErrorCode string
	Reason    string
}

func buildBookAddedPayload(book lending.Book) bookAddedPayload {
	return bookAddedPayload{
		BookID:      book.ID.String(),
		Title:       book.Title,
		Author:      book.Author,
		Category:    string(book.Category),
		TotalCopies: book.TotalCopies,
	}
}

func buildAddingBookFailedPayload(command Command, denial error) addingBookFailedPayload {
	return addingBookFailedPayload{
		Title:     command.Title,
		Author:    command.Author,
		ErrorCode: lending.CodeOf(denial),
		Reason:    denial.Error(),
	}
}
