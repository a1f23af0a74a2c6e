package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/engine"
	"github.com/roach88/cardpolicy/internal/ir"
)

func TestMatrix_Golden(t *testing.T) {
	table := referenceTable(t)
	tests := []struct {
		golden string
		action string
	}{
		{"matrix_action5", "ACTION5"},
		{"matrix_action6", "ACTION6"},
		{"matrix_action7", "ACTION7"},
		{"matrix_unknown", "ACTION99"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			out, _, err := runCommand(t, "matrix", tt.action, "--table", table)
			require.NoError(t, err)
			g.Assert(t, tt.golden, []byte(out))
		})
	}
}

func TestMatrix_JSON(t *testing.T) {
	out, _, err := runCommand(t, "matrix", "ACTION6", "--format", "json", "--table", referenceTable(t))
	require.NoError(t, err)

	var resp struct {
		Data engine.Matrix `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Known)
	assert.Len(t, resp.Data.Cells, len(ir.AllCardTypes())*len(ir.AllCardStatuses()))

	cell := resp.Data.Cell(ir.Credit, ir.Blocked)
	assert.True(t, cell.WithPin)
	assert.False(t, cell.WithoutPin)
	assert.True(t, cell.PinDependent())
}

func TestMatrixSymbol(t *testing.T) {
	assert.Equal(t, "Y", matrixSymbol(engine.MatrixCell{WithPin: true, WithoutPin: true}))
	assert.Equal(t, "N", matrixSymbol(engine.MatrixCell{}))
	assert.Equal(t, "PIN", matrixSymbol(engine.MatrixCell{WithPin: true}))
	assert.Equal(t, "NOPIN", matrixSymbol(engine.MatrixCell{WithoutPin: true}))
}
