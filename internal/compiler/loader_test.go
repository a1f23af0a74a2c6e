package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/ir"
	"github.com/roach88/cardpolicy/internal/testutil"
)

type fakeSource struct {
	headers []string
	rows    []Row
	err     error
}

func (f fakeSource) Read(context.Context) ([]string, []Row, error) {
	return f.headers, f.rows, f.err
}

func referenceSource() fakeSource {
	return fakeSource{headers: testutil.CardActionsHeaders(), rows: testutil.CardActionsRows()}
}

func lookup(t *testing.T, table *ir.RuleTable, action string, ct ir.CardType, cs ir.CardStatus) []ir.RuleDefinition {
	t.Helper()
	return table.Lookup(ir.RuleKey{Action: ir.ActionName(action).Key(), CardType: ct, CardStatus: cs})
}

func TestLoad_ReferenceTable(t *testing.T) {
	table, err := Load(context.Background(), referenceSource(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 13, table.ActionCount())
	assert.Equal(t, ir.ActionName("ACTION1"), table.Actions()[0])
	assert.Equal(t, ir.ActionName("ACTION13"), table.Actions()[12])
	assert.Empty(t, Validate(table))
}

func TestLoad_PlainCell(t *testing.T) {
	table, err := Load(context.Background(), referenceSource(), DefaultOptions())
	require.NoError(t, err)

	defs := lookup(t, table, "ACTION3", ir.Prepaid, ir.Closed)
	require.Len(t, defs, 1)
	assert.True(t, defs[0].IsAllowed)
	assert.Equal(t, ir.PinAny, defs[0].RequiresPinSet)

	defs = lookup(t, table, "ACTION1", ir.Credit, ir.Blocked)
	require.Len(t, defs, 1)
	assert.False(t, defs[0].IsAllowed)
}

func TestLoad_PinConditionedCellExpandsToPair(t *testing.T) {
	table, err := Load(context.Background(), referenceSource(), DefaultOptions())
	require.NoError(t, err)

	defs := lookup(t, table, "ACTION6", ir.Credit, ir.Blocked)
	require.Len(t, defs, 2)
	byPin := map[ir.PinRequirement]bool{}
	for _, d := range defs {
		byPin[d.RequiresPinSet] = d.IsAllowed
	}
	assert.Equal(t, map[ir.PinRequirement]bool{ir.PinSet: true, ir.PinNotSet: false}, byPin)

	defs = lookup(t, table, "ACTION7", ir.Debit, ir.Ordered)
	require.Len(t, defs, 2)
	byPin = map[ir.PinRequirement]bool{}
	for _, d := range defs {
		byPin[d.RequiresPinSet] = d.IsAllowed
	}
	assert.Equal(t, map[ir.PinRequirement]bool{ir.PinSet: false, ir.PinNotSet: true}, byPin)
}

func TestLoad_UnmarkedCardTypeHasNoRules(t *testing.T) {
	table, err := Load(context.Background(), referenceSource(), DefaultOptions())
	require.NoError(t, err)

	// ACTION5 is marked for CREDIT only.
	for _, s := range ir.AllCardStatuses() {
		assert.Empty(t, lookup(t, table, "ACTION5", ir.Prepaid, s))
		assert.Empty(t, lookup(t, table, "ACTION5", ir.Debit, s))
		assert.NotEmpty(t, lookup(t, table, "ACTION5", ir.Credit, s))
	}
	assert.True(t, table.HasAction("ACTION5"))
}

func TestLoad_SkipsRowsWithoutAction(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	rows := []Row{
		testutil.RowOf(headers, "  ", "YES", "YES", "YES", "MAYBE", "", "", "", "", "", ""),
		testutil.RowOf(headers, "ACTION1", "YES", "NO", "NO", "YES", "", "", "", "", "", ""),
	}

	table, err := Compile(headers, rows, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []ir.ActionName{"ACTION1"}, table.Actions())
	assert.Equal(t, len(ir.AllCardStatuses()), table.Len())
}

func TestLoad_UnmarkedRowSkipsClassification(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	rows := []Row{
		testutil.RowOf(headers, "ACTION1", "NO", "", "no", "garbage", "", "", "", "", "", ""),
	}

	table, err := Compile(headers, rows, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, table.HasAction("ACTION1"))
	assert.Equal(t, 0, table.Len())
}

func TestLoad_UnrecognizedCell(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	rows := []Row{
		testutil.RowOf(headers, "ACTION1", "YES", "YES", "YES", "YES", "YES", "YES", "YES", "YES", "YES", "YES"),
		testutil.RowOf(headers, "ACTION2", "NO", "YES", "NO", "YES", "YES", "sometimes", "YES", "YES", "YES", "YES"),
	}

	table, err := Compile(headers, rows, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, IsUnrecognizedCell(err))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Row)
	assert.Equal(t, "ACTIVE", le.Column)
	assert.Equal(t, "sometimes", le.Value)
	assert.Contains(t, err.Error(), `column="ACTIVE"`)
}

func TestLoad_StructuralError(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	rows := testutil.CardActionsRows()

	src := fakeSource{headers: headers[:len(headers)-2], rows: rows}
	table, err := Load(context.Background(), src, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, IsStructural(err))
}

func TestLoad_HeaderOnlyWithMissingAnchor(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	headers[1] = "PRE-PAID"

	_, err := Load(context.Background(), fakeSource{headers: headers}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.False(t, IsSourceUnavailable(err))
}

func TestCompile_RepeatedHeaderNeverReadsWrongColumn(t *testing.T) {
	headers := append([]string{"FLAG"}, testutil.CardActionsHeaders()[:10]...)
	headers = append(headers, "FLAG")

	// Rows keep the first cell of a repeated header, as delimited sources do.
	row := Row{"FLAG": "YES", "ACTION": "ACTION1", "PREPAID": "YES", "DEBIT": "YES", "CREDIT": "YES",
		"ORDERED": "NO", "INACTIVE": "NO", "ACTIVE": "YES", "RESTRICTED": "NO", "BLOCKED": "NO", "EXPIRED": "NO"}

	table, err := Compile(headers, []Row{row}, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, IsStructural(err))
}

func TestLoad_SourceUnavailable(t *testing.T) {
	cause := errors.New("file vanished")

	tests := []struct {
		name string
		src  fakeSource
	}{
		{"read failure", fakeSource{err: cause}},
		{"no headers", fakeSource{rows: testutil.CardActionsRows()}},
		{"no rows", fakeSource{headers: testutil.CardActionsHeaders()}},
		{"no named rows", fakeSource{
			headers: testutil.CardActionsHeaders(),
			rows:    []Row{testutil.RowOf(testutil.CardActionsHeaders(), "", "YES")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(context.Background(), tt.src, DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, IsSourceUnavailable(err))
		})
	}

	_, err := Load(context.Background(), fakeSource{err: cause}, DefaultOptions())
	assert.ErrorIs(t, err, cause)
}

func TestLoad_SourceLoadErrorPassesThrough(t *testing.T) {
	src := fakeSource{err: NewStructuralError("bad sheet", "X")}
	_, err := Load(context.Background(), src, DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}

func TestLoad_CustomLayoutAndTokens(t *testing.T) {
	headers := []string{"Operation", "Prepaid", "Debit", "Credit",
		"Ordered", "Inactive", "Active", "Restricted", "Blocked", "Expired", "Closed"}
	rows := []Row{
		testutil.RowOf(headers, "Top up", "ja", "nein", "nein",
			"nein", "nein", "ja", "ja (nur mit PIN)", "nein", "nein", "nein"),
	}
	opts := Options{
		Layout: Layout{ActionHeader: "operation", CardTypeAnchor: "prepaid", CardStatusAnchor: "ordered"},
		Tokens: Tokens{Positive: "ja", Negative: "nein", PinSetQualifier: "nur mit PIN", PinNotSetQualifier: "nur ohne PIN"},
		Strict: true,
	}

	table, err := Compile(headers, rows, opts)
	require.NoError(t, err)
	assert.Equal(t, []ir.ActionName{"Top up"}, table.Actions())

	defs := lookup(t, table, "top up", ir.Prepaid, ir.Restricted)
	require.Len(t, defs, 2)
	assert.Empty(t, lookup(t, table, "top up", ir.Debit, ir.Active))
}

func TestLoad_DuplicateRowsStrictAndLenient(t *testing.T) {
	headers := testutil.CardActionsHeaders()
	rows := []Row{
		testutil.RowOf(headers, "ACTION1", "YES", "NO", "NO", "YES", "YES", "YES", "YES", "YES", "YES", "YES"),
		testutil.RowOf(headers, "action1", "YES", "NO", "NO", "NO", "NO", "NO", "NO", "NO", "NO", "NO"),
	}

	_, err := Compile(headers, rows, DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	require.NotEmpty(t, le.Violations)
	assert.Equal(t, ErrDuplicateAgnosticRule, le.Violations[0].Code)

	opts := DefaultOptions()
	opts.Strict = false
	table, err := Compile(headers, rows, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, table.ActionCount())
	assert.Len(t, lookup(t, table, "ACTION1", ir.Prepaid, ir.Ordered), 2)
}
