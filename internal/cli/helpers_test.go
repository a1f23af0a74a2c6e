package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/testutil"
)

// writeFile writes content to name in dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// referenceTable writes the 13-action reference table to a temp dir.
func referenceTable(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "actions.csv", testutil.CardActionsCSV(";"))
}

// runCommand executes the root command with args and returns stdout and
// stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCommandWithInput(t, "", args...)
}

func runCommandWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
