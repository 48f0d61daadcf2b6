package loansbyborrower

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "LoansByBorrower"
)

// Query represents the intent to list a borrower's loans.
type Query struct {
	BorrowerID uuid.UUID
	AsOf       time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(borrowerID uuid.UUID, asOf time.Time) Query {
	return Query{
		BorrowerID: borrowerID,
		AsOf:       asOf,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
