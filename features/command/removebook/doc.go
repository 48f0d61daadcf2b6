// Package removebook implements the Remove Book use case.
//
// This feature deletes a catalog entry that has no unreturned loans. There is
// no separate decision function: the guarded delete inside the transaction is
// the whole rule, so a loan opened concurrently can never orphan itself by
// racing the removal.
package removebook
