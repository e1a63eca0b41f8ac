// Package store persists deckreader state in a local SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite driver, so no CGO toolchain
// is needed. The database holds:
//
//   - a key-value table, used for the saved extraction prompt
//   - a run table holding the records of past extraction runs
//
// The schema is created on open. All operations are safe for concurrent
// use; SQLite runs in WAL mode with a busy timeout.
package store
