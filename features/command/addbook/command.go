package addbook

import (
	"time"

	"github.com/circulib/lending-go/lending"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to register a new book in the catalog.
// It encapsulates all the necessary information required to execute the add book use case.
type Command struct {
	Title         string
	Author        string
	YearPublished int
	Category      lending.Category
	Copies        int
	ImageURL      string
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	title string,
	author string,
	yearPublished int,
	category lending.Category,
	copies int,
	imageURL string,
	occurredAt time.Time,
) Command {

	return Command{
		Title:         title,
		Author:        author,
		YearPublished: yearPublished,
		Category:      category,
		Copies:        copies,
		ImageURL:      imageURL,
		OccurredAt:    occurredAt,
	}
}
