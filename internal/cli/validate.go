package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/cardpolicy/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Origin      string                     `json:"origin"`
	Digest      string                     `json:"digest"`
	ActionCount int                        `json:"action_count"`
	RuleCount   int                        `json:"rule_count"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a decision table",
		Long: `Load a decision table and check every table invariant.

Unlike other commands, validate reports all invariant violations instead
of stopping at the first one.

Exit codes:
  0 - Table valid
  1 - Table loads but breaks invariants
  2 - Table cannot be loaded (missing anchors, unrecognized cells, ...)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}

	// Load leniently so every violation is reported, not just the first.
	compileOpts := s.cfg.CompilerOptions()
	compileOpts.Strict = false
	loaded, err := s.loadTableWith(commandContext(cmd), compileOpts)
	if err != nil {
		return err
	}

	s.out.VerboseLog("Loaded %d action(s), %d rule(s) from %s", loaded.Table.ActionCount(), loaded.Table.Len(), loaded.Origin)

	violations := compiler.Validate(loaded.Table)
	result := ValidationResult{
		Valid:       len(violations) == 0,
		Origin:      loaded.Origin,
		Digest:      loaded.Table.Digest(),
		ActionCount: loaded.Table.ActionCount(),
		RuleCount:   loaded.Table.Len(),
		Errors:      violations,
	}

	if !result.Valid {
		s.logger.Warn("table invariants violated",
			zap.String("origin", loaded.Origin),
			zap.Int("violations", len(violations)),
		)
		return outputValidationErrors(s.out, result)
	}
	return outputValidateSuccess(s.out, result)
}

// outputValidateSuccess outputs successful validation result.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Table valid: %d action(s), %d rule(s)\n", result.ActionCount, result.RuleCount)
	return nil
}

// outputValidationErrors outputs invariant violations.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	message := fmt.Sprintf("table breaks %d invariant(s)", len(result.Errors))

	if formatter.JSON() {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidTable,
				Message: message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeInvalidTable, message))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s: %s (%s)\n", e.Code, e.Message, e.Field)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeInvalidTable, message))
}
