// Package shell contains the imperative-shell plumbing shared by the feature
// slices: bounded retry with exponential backoff for concurrency conflicts,
// the HandlerResult execution metadata, journal payload serialization, and
// observability label helpers. Business logic never lives here - it belongs
// to the pure Decide functions in the feature packages.
package shell
