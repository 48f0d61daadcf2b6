// Package adapters provides database adapter implementations for different
// PostgreSQL drivers (pgx.Pool, database/sql, sqlx), unified behind the
// DBAdapter / DBTx interfaces the ledger engine runs its transactions on.
package adapters
