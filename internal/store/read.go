package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const snapshotColumns = `id, seq, source, digest, table_digest, headers, row_count, engine_version, format_version`

// ReadSnapshot returns the snapshot with the given id, rows included.
// Returns ErrSnapshotNotFound (wrapped) if it does not exist.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM table_snapshots
		WHERE id = ?
	`, id)
	return s.loadSnapshot(ctx, row, "snapshot "+id)
}

// LatestSnapshot returns the snapshot with the highest seq.
// Returns ErrSnapshotNotFound (wrapped) if the store is empty.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM table_snapshots
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`)
	return s.loadSnapshot(ctx, row, "latest snapshot")
}

// FindSnapshotByDigest returns the most recent snapshot whose raw rows have
// the given digest. The boolean is false when none exists.
func (s *Store) FindSnapshotByDigest(ctx context.Context, digest string) (SnapshotInfo, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM table_snapshots
		WHERE digest = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, digest)

	info, _, err := scanSnapshotInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotInfo{}, false, nil
	}
	if err != nil {
		return SnapshotInfo{}, false, fmt.Errorf("find snapshot by digest: %w", err)
	}
	return info, true, nil
}

// ListSnapshots returns every snapshot without rows, ordered by seq.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM table_snapshots
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		info, _, err := scanSnapshotInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return infos, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshotInfo(row scanner) (SnapshotInfo, string, error) {
	var (
		info        SnapshotInfo
		headersJSON string
	)
	err := row.Scan(
		&info.ID,
		&info.Seq,
		&info.Source,
		&info.Digest,
		&info.TableDigest,
		&headersJSON,
		&info.RowCount,
		&info.EngineVersion,
		&info.FormatVersion,
	)
	if err != nil {
		return SnapshotInfo{}, "", err
	}
	return info, headersJSON, nil
}

func (s *Store) loadSnapshot(ctx context.Context, row *sql.Row, what string) (Snapshot, error) {
	info, headersJSON, err := scanSnapshotInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", what, ErrSnapshotNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", what, err)
	}

	headers, err := unmarshalHeaders(headersJSON)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", what, err)
	}

	cells, err := s.readRows(ctx, info.ID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", what, err)
	}

	return Snapshot{SnapshotInfo: info, Headers: headers, Rows: cells}, nil
}

func (s *Store) readRows(ctx context.Context, snapshotID string) ([]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cells
		FROM snapshot_rows
		WHERE snapshot_id = ?
		ORDER BY row_index ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := []map[string]string{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells, err := unmarshalCells(data)
		if err != nil {
			return nil, err
		}
		out = append(out, cells)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}
