package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/ir"
	"github.com/roach88/cardpolicy/internal/source"
	"github.com/roach88/cardpolicy/internal/store"
)

// ImportResult describes the snapshot holding an imported table.
type ImportResult struct {
	Created     bool               `json:"created"`
	Snapshot    store.SnapshotInfo `json:"snapshot"`
	ActionCount int                `json:"action_count"`
	RuleCount   int                `json:"rule_count"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <table-file>",
		Short: "Store a decision table as a snapshot",
		Long: `Compile a decision table file and store its rows as a snapshot in a
SQLite store (created if it doesn't exist).

The table must load under the current settings; a table that cannot be
served is never stored. Importing rows identical to an existing snapshot
reuses that snapshot.

Example:
  cardpolicy import actions.csv --db ./policy.db
  cardpolicy allowed --db ./policy.db --type DEBIT --status ACTIVE`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if s.cfg.Source.DB == "" {
		return s.out.Fail(ExitCommandError, ErrCodeNoSource, "--db is required", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("table file not found: %s", path), nil)
	}

	src, err := source.ForPath(path, s.cfg.FileOptions())
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	headers, rows, err := src.Read(ctx)
	if err != nil {
		return s.loadFailure(compiler.NewSourceError("reading rows", err))
	}

	table, err := compiler.Compile(headers, rows, s.cfg.CompilerOptions())
	if err != nil {
		return s.loadFailure(err)
	}
	s.out.VerboseLog("Compiled %d action(s), %d rule(s) from %s", table.ActionCount(), table.Len(), path)

	st, err := store.Open(s.cfg.Source.DB)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening store: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			s.logger.Error("error closing store", zap.Error(closeErr))
		}
	}()

	result := ImportResult{ActionCount: table.ActionCount(), RuleCount: table.Len()}

	digest, err := ir.RawRowsDigest(headers, rows)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	existing, found, err := st.FindSnapshotByDigest(ctx, digest)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if found {
		result.Snapshot = existing
		s.logger.Info("table unchanged", zap.String("snapshot", existing.ID), zap.String("digest", digest))
	} else {
		snap, err := st.SaveSnapshot(ctx, store.SnapshotInput{
			Source:      path,
			Headers:     headers,
			Rows:        rows,
			TableDigest: table.Digest(),
		})
		if err != nil {
			return s.out.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.Created = true
		result.Snapshot = snap.SnapshotInfo
		s.logger.Info("snapshot imported",
			zap.String("snapshot", snap.ID),
			zap.Int64("seq", snap.Seq),
			zap.String("digest", snap.Digest),
			zap.String("table_digest", snap.TableDigest),
		)
	}

	return outputImportSuccess(s.out, result)
}

// outputImportSuccess outputs the imported snapshot.
func outputImportSuccess(formatter *OutputFormatter, result ImportResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	snap := result.Snapshot
	if result.Created {
		fmt.Fprintf(formatter.Writer, "✓ Imported snapshot %s (seq %d): %d action(s), %d rule(s)\n",
			snap.ID, snap.Seq, result.ActionCount, result.RuleCount)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Table unchanged, snapshot %s (seq %d) already holds it\n", snap.ID, snap.Seq)
	}
	return nil
}
