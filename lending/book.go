package lending

import (
	"github.com/google/uuid"
)

// Category classifies a book in the catalog.
type Category string

const (
	CategoryRomance    Category = "romance"
	CategoryAction     Category = "action"
	CategoryMystery    Category = "mystery"
	CategorySciFi      Category = "sci-fi"
	CategoryFantasy    Category = "fantasy"
	CategoryNonFiction Category = "non-fiction"
)

// DefaultImageURL is used when a book is registered without a cover image reference.
const DefaultImageURL = "https://png.pngtree.com/png-clipart/20230917/original/pngtree-no-image-available-icon-flatvector-illustration-thumbnail-graphic-illustration-vector-png-image_12323920.png"

// IsValid reports whether the category is one of the recognized catalog categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryRomance, CategoryAction, CategoryMystery, CategorySciFi, CategoryFantasy, CategoryNonFiction:
		return true
	default:
		return false
	}
}

// Book is a catalog entry with a finite pool of lendable copies.
//
// AvailableCopies is the count of copies not currently reserved by an open loan.
// It must never be mutated directly by callers - only the borrow/return command
// handlers change it, through the ledger's atomic reserve/release operations.
// The invariant AvailableCopies + open loans == TotalCopies holds at all times.
type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	YearPublished   int
	Category        Category
	TotalCopies     int
	AvailableCopies int
	ImageURL        string
}

// BuildBook creates a new Book with all copies available.
//
// An empty category defaults to romance and an empty image URL defaults to
// DefaultImageURL, matching the permissive catalog registration rules.
// Returns ErrUnknownCategory for a non-empty unrecognized category and
// ErrInvalidCopyCount if copies is not positive.
func BuildBook(
	id uuid.UUID,
	title string,
	author string,
	yearPublished int,
	category Category,
	copies int,
	imageURL string,
) (Book, error) {

	if category == "" {
		category = CategoryRomance
	}

	if !category.IsValid() {
		return Book{}, ErrUnknownCategory
	}

	if copies < 1 {
		return Book{}, ErrInvalidCopyCount
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	book := Book{
		ID:              id,
		Title:           title,
		Author:          author,
		YearPublished:   yearPublished,
		Category:        category,
		TotalCopies:     copies,
		AvailableCopies: copies,
		ImageURL:        imageURL,
	}

	return book, nil
}

// IsOutOfStock reports whether no copies are currently available for borrowing.
func (b Book) IsOutOfStock() bool {
	return b.AvailableCopies <= 0
}
