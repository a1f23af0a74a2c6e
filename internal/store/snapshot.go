package store

import (
	"errors"
)

// ErrSnapshotNotFound is returned when no snapshot matches a read.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotInput is the content of a new snapshot.
type SnapshotInput struct {
	// Source describes where the rows came from (usually a file path).
	Source string

	// Headers is the header row in column order.
	Headers []string

	// Rows maps header text to cell text, in table order.
	Rows []map[string]string

	// TableDigest is the digest of the table compiled from these rows.
	TableDigest string
}

// SnapshotInfo describes a stored snapshot without its rows.
type SnapshotInfo struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Source        string `json:"source"`
	Digest        string `json:"digest"`
	TableDigest   string `json:"table_digest"`
	RowCount      int    `json:"row_count"`
	EngineVersion string `json:"engine_version"`
	FormatVersion string `json:"format_version"`
}

// Snapshot is a stored snapshot with its rows.
type Snapshot struct {
	SnapshotInfo
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}
