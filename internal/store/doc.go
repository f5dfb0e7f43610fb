// Package store persists the ordered collection of tracked series.
//
// The store is a flat table: a CSV file by default, or a single SQLite table
// when configured. Every operation is a complete cycle against that file. A
// mutation takes an exclusive advisory lock, loads the full snapshot, applies
// one change, rewrites the whole table atomically, and releases the lock; no
// state is kept between calls. The file is created on the first successful
// Append.
//
// Records are addressed two ways. Position is the 0-based row index in the
// current snapshot and shifts down when an earlier row is removed. ID is the
// UUID assigned at creation and survives reordering and deletes, so callers
// that hold a handle across operations should prefer the ByID methods.
package store
