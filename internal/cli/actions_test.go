package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActions_Text(t *testing.T) {
	table := referenceTable(t)
	out, _, err := runCommand(t, "actions", "--table", table)
	require.NoError(t, err)

	assert.Contains(t, out, "13 action(s) in "+table+"\n")
	assert.Contains(t, out, "  ACTION1\n  ACTION2\n")
	assert.Contains(t, out, "  ACTION13\n")
}

func TestActions_JSON(t *testing.T) {
	out, _, err := runCommand(t, "actions", "--format", "json", "--table", referenceTable(t))
	require.NoError(t, err)

	var resp struct {
		Data ActionsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Actions, 13)
	assert.Equal(t, "ACTION1", resp.Data.Actions[0])
	assert.Equal(t, "ACTION13", resp.Data.Actions[12])
	assert.Len(t, resp.Data.Digest, 64)
}

func TestActions_CUETable(t *testing.T) {
	table := writeFile(t, t.TempDir(), "actions.cue", `
headers: ["ACTION", "PREPAID", "DEBIT", "CREDIT", "ORDERED", "INACTIVE", "ACTIVE", "RESTRICTED", "BLOCKED", "EXPIRED", "CLOSED"]
rows: [
	{ACTION: "top up", PREPAID: "YES", DEBIT: "NO", CREDIT: "NO", ORDERED: "NO", INACTIVE: "NO", ACTIVE: "YES", RESTRICTED: "NO", BLOCKED: "NO", EXPIRED: "NO", CLOSED: "NO"},
]
`)

	out, _, err := runCommand(t, "actions", "--table", table)
	require.NoError(t, err)
	assert.Contains(t, out, "1 action(s)")
	assert.Contains(t, out, "  top up\n")
}
