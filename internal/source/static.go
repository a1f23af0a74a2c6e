package source

import (
	"context"
	"maps"
	"slices"

	"github.com/roach88/cardpolicy/internal/compiler"
)

// Static serves fixed headers and rows.
type Static struct {
	Headers []string
	Rows    []compiler.Row
}

// Read returns copies of the headers and rows.
func (s Static) Read(ctx context.Context) ([]string, []compiler.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	rows := make([]compiler.Row, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = maps.Clone(r)
	}
	return slices.Clone(s.Headers), rows, nil
}
