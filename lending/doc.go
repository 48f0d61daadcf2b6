// Package lending contains the pure domain model of the library lending core:
// books with a finite pool of lendable copies, loans with a bounded duration,
// the loan-duration policy, and the business error taxonomy.
//
// Nothing in this package performs I/O or reads the clock - the current time
// is always passed in by the caller. All state mutation happens through the
// command handlers in the features packages, against a ledger.Store.
package lending
