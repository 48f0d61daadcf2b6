// Package returnbook implements the Return Book use case.
//
// This feature completes an open loan and releases its reserved copy back to
// the book's available pool. It follows the Query-Decide-Commit pattern with
// proper separation between infrastructure concerns (CommandHandler) and pure
// business logic (Decide function).
//
// The business logic enforces that a loan completes at most once and that
// only the loan's own borrower (or an administrator) may return it. The flip
// of the returned flag is a guarded update inside the transaction, so two
// concurrent returns of the same loan release the copy exactly once.
package returnbook
