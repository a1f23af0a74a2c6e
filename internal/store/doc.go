// Package store provides SQLite-backed storage for imported decision tables.
//
// Each import is kept as an immutable snapshot of the raw rows, so a table
// can be recompiled later exactly as it was received:
//   - table_snapshots: one record per import (id, seq, digests, headers)
//   - snapshot_rows: the cell maps of a snapshot, by row index
//
// # Conventions
//
// Logical ordering
//   - Snapshots are ordered by seq INTEGER (logical clock), never timestamps
//   - Queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// Canonical content
//   - Headers and rows are stored as RFC 8785 canonical JSON
//   - digest is ir.RawRowsDigest over the stored headers and rows
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
