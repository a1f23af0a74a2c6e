package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestInput creates a two-row snapshot input.
func createTestInput(source string) SnapshotInput {
	headers := []string{"ACTION", "PREPAID", "DEBIT"}
	return SnapshotInput{
		Source:  source,
		Headers: headers,
		Rows: []map[string]string{
			{"ACTION": "ACTION1", "PREPAID": "YES", "DEBIT": "NO"},
			{"ACTION": "ACTION2", "PREPAID": "NO", "DEBIT": "YES - only if PIN is set"},
		},
		TableDigest: "table-digest",
	}
}
