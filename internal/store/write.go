package store

import (
	"context"
	"fmt"

	"github.com/roach88/cardpolicy/internal/ir"
)

// SaveSnapshot stores the rows of one import as a new snapshot.
//
// The snapshot receives a fresh id and the next seq. Headers and rows are
// written in a single transaction; a failure leaves no partial snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, in SnapshotInput) (Snapshot, error) {
	digest, err := ir.RawRowsDigest(in.Headers, in.Rows)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	headersJSON, err := marshalHeaders(in.Headers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	cells := make([]string, len(in.Rows))
	for i, row := range in.Rows {
		cells[i], err = marshalCells(row)
		if err != nil {
			return Snapshot{}, fmt.Errorf("save snapshot: row %d: %w", i, err)
		}
	}

	id, err := s.insertSnapshot(ctx, in, digest, headersJSON, cells)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}

	return s.ReadSnapshot(ctx, id)
}

// insertSnapshot writes the snapshot record and its rows in one transaction
// and returns the new id.
func (s *Store) insertSnapshot(ctx context.Context, in SnapshotInput, digest, headersJSON string, cells []string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM table_snapshots`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next seq: %w", err)
	}

	id := s.idGen.Generate()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO table_snapshots
		(id, seq, source, digest, table_digest, headers, row_count, engine_version, format_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		seq,
		in.Source,
		digest,
		in.TableDigest,
		headersJSON,
		len(cells),
		ir.EngineVersion,
		ir.TableFormatVersion,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_rows (snapshot_id, row_index, cells)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, c := range cells {
		if _, err := stmt.ExecContext(ctx, id, i, c); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// DeleteSnapshot removes a snapshot and its rows.
// Returns ErrSnapshotNotFound if id does not exist.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM table_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	return nil
}
