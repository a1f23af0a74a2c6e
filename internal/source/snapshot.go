package source

import (
	"context"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/store"
)

// Snapshot reads rows imported into a store.
type Snapshot struct {
	Store *store.Store

	// ID selects a snapshot; empty means the latest.
	ID string
}

// Read returns the stored headers and rows.
func (s Snapshot) Read(ctx context.Context) ([]string, []compiler.Row, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap.Headers, snap.Rows, nil
}

// Load returns the selected snapshot with its metadata.
func (s Snapshot) Load(ctx context.Context) (store.Snapshot, error) {
	if s.ID == "" {
		return s.Store.LatestSnapshot(ctx)
	}
	return s.Store.ReadSnapshot(ctx, s.ID)
}
