// Package postgresengine implements the ledger.Store contract on PostgreSQL.
//
// Every command runs inside one database transaction, and the inventory
// mutations are single conditional UPDATE statements (decrement-if-positive,
// flip-if-unreturned), so the check-then-mutate race between concurrent
// borrow/return calls on the same book is closed by the database itself:
// row locks serialize writers per book while operations on different books
// do not contend. Serialization failures and deadlocks surface as
// ledger.ErrConcurrencyConflict for the caller's bounded retry.
//
// The engine can be constructed from a pgxpool.Pool, a sql.DB, or a sqlx.DB.
package postgresengine
