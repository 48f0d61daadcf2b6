// Package loansbyborrower implements the Loans by Borrower query.
//
// This feature lists a borrower's loan history, oldest first, with a
// borrower-facing status line per loan. Open loans past their due date are
// flagged as overdue as of the query's reference time.
package loansbyborrower
