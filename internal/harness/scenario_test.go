package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/testutil"
)

// writeScenario writes the reference table and a scenario next to it and
// returns the scenario path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "table.csv"), []byte(testutil.CardActionsCSV(";")), 0644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: "Mixed cases"
table: table.csv
cases:
  - card: { type: credit, status: blocked, pin_set: true }
    expect_allowed: [ACTION3]
  - action: ACTION5
    card: { type: PREPAID, status: ACTIVE }
    expect: denied
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", scenario.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "table.csv"), scenario.Table)
	require.Len(t, scenario.Cases, 2)
	assert.Equal(t, []string{"ACTION3"}, scenario.Cases[0].ExpectAllowed)
	assert.True(t, scenario.Cases[0].Card.PinSet)
	assert.Equal(t, "ACTION5", scenario.Cases[1].Action)
	assert.False(t, scenario.Cases[1].Card.PinSet)
	assert.Nil(t, scenario.Strict)
}

func TestLoadScenario_EmptyExpectAllowed(t *testing.T) {
	path := writeScenario(t, `
name: none
description: "Nothing allowed"
table: table.csv
cases:
  - card: { type: DEBIT, status: CLOSED }
    expect_allowed: []
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.NotNil(t, scenario.Cases[0].ExpectAllowed)
	assert.Empty(t, scenario.Cases[0].ExpectAllowed)
}

func TestLoadScenario_StrictOverride(t *testing.T) {
	path := writeScenario(t, `
name: lenient
description: "Lenient load"
table: table.csv
strict: false
cases:
  - action: ACTION1
    card: { type: DEBIT, status: ACTIVE }
    expect: allowed
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, scenario.Strict)
	assert.False(t, *scenario.Strict)
}

func TestLoadScenario_ExpectLoadError(t *testing.T) {
	path := writeScenario(t, `
name: broken
description: "Broken table"
table: table.csv
expect_load_error: STRUCTURAL_ERROR
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "STRUCTURAL_ERROR", scenario.ExpectLoadError)
	assert.Empty(t, scenario.Cases)
}

func TestLoadScenario_AbsoluteTablePath(t *testing.T) {
	tableDir := t.TempDir()
	tablePath := filepath.Join(tableDir, "abs.csv")
	require.NoError(t, os.WriteFile(tablePath, []byte(testutil.CardActionsCSV(",")), 0644))

	path := writeScenario(t, `
name: absolute
description: "Absolute table path"
table: `+tablePath+`
cases:
  - action: ACTION1
    card: { type: DEBIT, status: ACTIVE }
    expect: allowed
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, tablePath, scenario.Table)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, "name: [unclosed\n")
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "top level typo",
			content: `
name: typo
description: "Typo"
tabel: table.csv
cases: []
`,
		},
		{
			name: "case typo",
			content: `
name: typo
description: "Typo"
table: table.csv
cases:
  - action: ACTION1
    card: { type: DEBIT, status: ACTIVE }
    expected: allowed
`,
		},
		{
			name: "card typo",
			content: `
name: typo
description: "Typo"
table: table.csv
cases:
  - action: ACTION1
    card: { type: DEBIT, status: ACTIVE, pin: true }
    expect: allowed
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found in type")
		})
	}
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\ntable: table.csv\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ntable: table.csv\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "description is required",
		},
		{
			name:    "missing table",
			content: "name: n\ndescription: d\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "table is required",
		},
		{
			name:    "table not found",
			content: "name: n\ndescription: d\ntable: missing.csv\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "table file not found",
		},
		{
			name:    "no cases",
			content: "name: n\ndescription: d\ntable: table.csv\n",
			wantErr: "cases list is required",
		},
		{
			name:    "unknown load error kind",
			content: "name: n\ndescription: d\ntable: table.csv\nexpect_load_error: BROKEN\n",
			wantErr: `unknown expect_load_error "BROKEN"`,
		},
		{
			name:    "cases with load error",
			content: "name: n\ndescription: d\ntable: table.csv\nexpect_load_error: STRUCTURAL_ERROR\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "cases are not allowed with expect_load_error",
		},
		{
			name:    "bad card type",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - action: A\n    card: { type: GOLD, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "cases[0].card",
		},
		{
			name:    "missing card status",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - action: A\n    card: { type: DEBIT }\n    expect: allowed\n",
			wantErr: "cases[0].card",
		},
		{
			name:    "bad expect",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect: maybe\n",
			wantErr: `expect must be "allowed" or "denied"`,
		},
		{
			name:    "expect without action",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - card: { type: DEBIT, status: ACTIVE }\n    expect: allowed\n",
			wantErr: "expect requires action",
		},
		{
			name:    "missing expect_allowed",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - card: { type: DEBIT, status: ACTIVE }\n",
			wantErr: "expect_allowed is required",
		},
		{
			name:    "expect_allowed with action",
			content: "name: n\ndescription: d\ntable: table.csv\ncases:\n  - action: A\n    card: { type: DEBIT, status: ACTIVE }\n    expect_allowed: [A]\n",
			wantErr: "expect_allowed is not allowed with action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpectConstants(t *testing.T) {
	assert.Equal(t, "allowed", ExpectAllowed)
	assert.Equal(t, "denied", ExpectDenied)
}

func TestLoadTestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Base(path), scenario.Name+".yaml")
		})
	}
}
