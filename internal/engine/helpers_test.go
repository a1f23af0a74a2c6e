package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/ir"
	"github.com/roach88/cardpolicy/internal/testutil"
)

func referenceTable(t *testing.T) *ir.RuleTable {
	t.Helper()
	table, err := compiler.Compile(testutil.CardActionsHeaders(), testutil.CardActionsRows(), compiler.DefaultOptions())
	require.NoError(t, err)
	return table
}

func actions(names ...string) []ir.ActionName {
	out := make([]ir.ActionName, len(names))
	for i, n := range names {
		out[i] = ir.ActionName(n)
	}
	return out
}

func def(action string, t ir.CardType, s ir.CardStatus, allowed bool, pin ir.PinRequirement) ir.RuleDefinition {
	return ir.RuleDefinition{Action: ir.ActionName(action), CardType: t, CardStatus: s, IsAllowed: allowed, RequiresPinSet: pin}
}
