package checkeligibility

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "CheckEligibility"
)

// Query represents the intent to check whether a borrower may borrow a book.
type Query struct {
	BookID     uuid.UUID
	BorrowerID uuid.UUID
	AsOf       time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(bookID uuid.UUID, borrowerID uuid.UUID, asOf time.Time) Query {
	return Query{
		BookID:     bookID,
		BorrowerID: borrowerID,
		AsOf:       asOf,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
