// Package borrowbook implements the Borrow Book use case.
//
// This feature lends one copy of a catalog book to a borrower. It follows
// the Query-Decide-Commit pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide
// function).
//
// The business logic enforces the eligibility rules: a borrower with any
// overdue loan is refused before stock is considered, and a book with no
// available copies is refused. The copy reservation itself is a guarded
// decrement inside the transaction, so two concurrent borrows of the last
// copy resolve to exactly one success.
package borrowbook
