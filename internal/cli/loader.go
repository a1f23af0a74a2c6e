package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/config"
	"github.com/roach88/cardpolicy/internal/ir"
	"github.com/roach88/cardpolicy/internal/source"
	"github.com/roach88/cardpolicy/internal/store"
)

var errNoSource = errors.New("no table source: use --table or --db")

// LoadedTable is a compiled table and where it was read from.
type LoadedTable struct {
	Table  *ir.RuleTable
	Origin string
}

// tableSource selects the row source from the resolved settings: the table
// file when one is set, otherwise a snapshot from the store. The returned
// release func closes any store the source holds.
func tableSource(cfg *config.Config) (compiler.RowSource, string, func(), error) {
	switch {
	case cfg.Source.Path != "":
		if _, err := os.Stat(cfg.Source.Path); err != nil {
			return nil, "", nil, fmt.Errorf("table file not found: %s", cfg.Source.Path)
		}
		src, err := source.ForPath(cfg.Source.Path, cfg.FileOptions())
		if err != nil {
			return nil, "", nil, err
		}
		return src, cfg.Source.Path, func() {}, nil

	case cfg.Source.DB != "":
		st, err := openExistingStore(cfg.Source.DB)
		if err != nil {
			return nil, "", nil, err
		}
		origin := cfg.Source.DB + "@latest"
		if cfg.Source.Snapshot != "" {
			origin = cfg.Source.DB + "@" + cfg.Source.Snapshot
		}
		release := func() { _ = st.Close() }
		return source.Snapshot{Store: st, ID: cfg.Source.Snapshot}, origin, release, nil

	default:
		return nil, "", nil, errNoSource
	}
}

// openExistingStore opens a store that must already exist. Open alone
// would create an empty database at a mistyped path.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot store not found: %s", path)
	}
	return store.Open(path)
}

// loadTable reads and compiles the configured table.
func loadTable(ctx context.Context, cfg *config.Config, opts compiler.Options, logger *zap.Logger) (*LoadedTable, error) {
	src, origin, release, err := tableSource(cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	table, err := compiler.Load(ctx, src, opts)
	if err != nil {
		logger.Warn("table load failed", zap.String("origin", origin), zap.Error(err))
		return nil, err
	}

	logger.Info("table loaded",
		zap.String("origin", origin),
		zap.String("digest", table.Digest()),
		zap.Int("actions", table.ActionCount()),
		zap.Int("rules", table.Len()),
		zap.Bool("strict", opts.Strict),
	)
	return &LoadedTable{Table: table, Origin: origin}, nil
}

// loadTable loads the session's table, writing any failure to the output.
func (s *session) loadTable(ctx context.Context) (*LoadedTable, error) {
	return s.loadTableWith(ctx, s.cfg.CompilerOptions())
}

func (s *session) loadTableWith(ctx context.Context, opts compiler.Options) (*LoadedTable, error) {
	loaded, err := loadTable(ctx, s.cfg, opts, s.logger)
	if err != nil {
		return nil, s.loadFailure(err)
	}
	return loaded, nil
}

// loadFailure reports a failed load. A failed load is a command error:
// no answer is given from a table that could not be loaded.
func (s *session) loadFailure(err error) error {
	var le *compiler.LoadError
	switch {
	case errors.As(err, &le):
		return s.out.Fail(ExitCommandError, loadErrorCode(le.Kind), le.Error(), loadErrorDetails(le))
	case errors.Is(err, errNoSource):
		return s.out.Fail(ExitCommandError, ErrCodeNoSource, err.Error(), nil)
	default:
		return s.out.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
}

// loadErrorCode maps a load error kind to a CLI error code.
func loadErrorCode(kind compiler.LoadErrorKind) string {
	switch kind {
	case compiler.KindSourceUnavailable:
		return ErrCodeSource
	case compiler.KindStructural:
		return ErrCodeStructural
	case compiler.KindUnrecognizedCell:
		return ErrCodeCell
	default:
		return ErrCodeGeneric
	}
}

func loadErrorDetails(le *compiler.LoadError) map[string]any {
	details := map[string]any{"kind": string(le.Kind)}
	if le.Row > 0 {
		details["row"] = le.Row
	}
	if le.Column != "" {
		details["column"] = le.Column
	}
	if le.Value != "" {
		details["value"] = le.Value
	}
	if len(le.Violations) > 0 {
		details["violations"] = le.Violations
	}
	return details
}
