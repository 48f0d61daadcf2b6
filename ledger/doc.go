// Package ledger defines the storage contract for the lending core: the
// transactional Store boundary, the Transaction operations the command and
// query handlers run inside it, and the journal entry DTO for the audit trail.
//
// The contract makes the check-then-mutate sequences of the loan lifecycle
// atomic: all reads and conditional mutations of one command happen inside a
// single transaction, and the per-book copy counter is only ever changed
// through ReserveBookCopy / ReleaseBookCopy, whose guards re-validate stock
// at the commit point. Implementations live in the postgresengine and
// memoryengine subpackages.
package ledger
