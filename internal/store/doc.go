// Package store provides SQLite-backed key-value storage for ordpad.
//
// A single table holds one row per key:
//
//	kv(key TEXT PRIMARY KEY, value TEXT NOT NULL)
//
// Writes replace the whole value with INSERT ... ON CONFLICT(key) DO UPDATE,
// matching the write-through model of the persist package: every change to
// the catalog or the order rewrites that list's row.
//
// # Database Configuration
//
//   - WAL mode: readers are not blocked by the writer
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - single open connection: SQLite has one writer anyway
//
// The schema version is tracked in PRAGMA user_version. Opening a database
// stamped by a newer version fails instead of guessing at its layout.
package store
