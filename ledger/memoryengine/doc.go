// Package memoryengine implements the ledger.Store contract in memory, on
// top of hashicorp/go-memdb. Write transactions are serialized by memdb, so
// the same atomicity and exactly-once guarantees hold as with the Postgres
// engine, without a database. It backs the unit and concurrency tests and
// the load tool's dry mode; it is not meant for production use.
package memoryengine
