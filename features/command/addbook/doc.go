// Package addbook implements the Add Book use case.
//
// This feature registers a new book in the catalog with a finite pool of
// lendable copies, all of them available. Catalog registration is permissive
// where the domain allows it (missing category and image fall back to
// defaults) and strict where it does not (unknown categories and
// non-positive copy counts are refused).
package addbook
