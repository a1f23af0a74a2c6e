package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/store"
)

// SnapshotsOptions holds flags for the snapshots command.
type SnapshotsOptions struct {
	*RootOptions
	Delete string // snapshot id to remove
}

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List or delete snapshots in a store",
		Long: `List the snapshots stored in --db, oldest first, or delete one.

Example:
  cardpolicy snapshots --db ./policy.db
  cardpolicy snapshots --db ./policy.db --delete 0192f0c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshots(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Delete, "delete", "", "delete the snapshot with this id")

	return cmd
}

func runSnapshots(opts *SnapshotsOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if s.cfg.Source.DB == "" {
		return s.out.Fail(ExitCommandError, ErrCodeNoSource, "--db is required", nil)
	}
	st, err := openExistingStore(s.cfg.Source.DB)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	defer func() { _ = st.Close() }()

	if opts.Delete != "" {
		return deleteSnapshot(ctx, s, st, opts.Delete)
	}

	infos, err := st.ListSnapshots(ctx)
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if s.out.JSON() {
		return s.out.Success(infos)
	}
	return outputSnapshotsText(s.out, infos)
}

// DeleteResult reports a deleted snapshot.
type DeleteResult struct {
	Deleted string `json:"deleted"`
}

func deleteSnapshot(ctx context.Context, s *session, st *store.Store, id string) error {
	if err := st.DeleteSnapshot(ctx, id); err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return s.out.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
		}
		return s.out.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	s.logger.Info("snapshot deleted", zap.String("snapshot", id))

	if s.out.JSON() {
		return s.out.Success(DeleteResult{Deleted: id})
	}
	fmt.Fprintf(s.out.Writer, "✓ Deleted snapshot %s\n", id)
	return nil
}

func outputSnapshotsText(formatter *OutputFormatter, infos []store.SnapshotInfo) error {
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots found.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tROWS\tTABLE\tSOURCE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", info.Seq, info.ID, info.RowCount, shortDigest(info.TableDigest), info.Source)
	}
	return tw.Flush()
}

// shortDigest abbreviates a digest for display.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
