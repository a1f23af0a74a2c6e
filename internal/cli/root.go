package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/config"
	"github.com/roach88/cardpolicy/internal/observability"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Table origin. Flags override the config file.
	Table    string // table file
	DB       string // snapshot store
	Snapshot string // snapshot id; empty means latest
	Lenient  bool   // load without invariant checks
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cardpolicy CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cardpolicy",
		Short: "Card action policy tables",
		Long: `Decide which cardholder actions are allowed for a card's type,
status and PIN state, using a decision table maintained as a spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "decision table file (.csv, .tsv, .txt, .cue)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite snapshot store")
	cmd.PersistentFlags().StringVar(&opts.Snapshot, "snapshot", "", "snapshot id to load from --db (default latest)")
	cmd.PersistentFlags().BoolVar(&opts.Lenient, "lenient", false, "load tables that break invariants")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewAllowedCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewMatrixCommand(opts))
	cmd.AddCommand(NewActionsCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSnapshotsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// session carries the resolved settings of one command invocation.
type session struct {
	opts   *RootOptions
	cfg    *config.Config
	logger *zap.Logger
	out    *OutputFormatter
}

// newSession loads the config, applies flag overrides, and builds the
// logger. Errors are already written to the command output.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	opts.apply(cfg)

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	return &session{opts: opts, cfg: cfg, logger: logger, out: out}, nil
}

// apply overrides config settings with the flags that were given.
// A --db without --table also discards a table path from the config.
func (o *RootOptions) apply(cfg *config.Config) {
	if o.Table != "" {
		cfg.Source.Path = o.Table
	}
	if o.DB != "" {
		cfg.Source.DB = o.DB
		if o.Table == "" {
			cfg.Source.Path = ""
		}
	}
	if o.Snapshot != "" {
		cfg.Source.Snapshot = o.Snapshot
	}
	if o.Lenient {
		cfg.Strict = false
	}
}

// commandContext returns the command's context, or Background when the
// command runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
