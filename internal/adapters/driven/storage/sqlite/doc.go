// Package sqlite provides a SQLite-based implementation of driven.DocumentStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Documents live in one table and chat transcripts in another, one row per turn,
// so appending a turn never rewrites the document.
//
// # Data Location
//
// By default, the database is stored at ~/.pdfchat/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and transcript appends run in a transaction.
package sqlite
