// Package sqlite provides the SQLite-backed classification record store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time.
//
// # Data Location
//
// By default, the database is stored at ~/.coursa/data/records.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode, so concurrent classification workers can
// persist decisions without external coordination.
package sqlite
