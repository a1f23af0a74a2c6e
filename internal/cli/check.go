package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/cardpolicy/internal/engine"
	"github.com/roach88/cardpolicy/internal/ir"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	card := &cardFlags{}

	cmd := &cobra.Command{
		Use:   "check <action>",
		Short: "Decide whether one action is allowed",
		Long: `Decide whether an action is allowed for a card state and explain why.

Action names match case-insensitively. An action missing from the table
is denied.

Exit codes:
  0 - Allowed
  1 - Denied
  2 - Command error (bad flags, table load failure)

Example:
  cardpolicy check ACTION6 --table actions.csv --type DEBIT --status ACTIVE --pin-set`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, card, args[0], cmd)
		},
	}
	card.bind(cmd)

	return cmd
}

func runCheck(opts *RootOptions, card *cardFlags, action string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}

	cardType, cardStatus, err := card.parse()
	if err != nil {
		return s.out.Fail(ExitCommandError, ErrCodeInvalidCard, err.Error(), nil)
	}

	loaded, err := s.loadTable(commandContext(cmd))
	if err != nil {
		return err
	}

	d := engine.NewEvaluator(loaded.Table).Explain(ir.ActionName(action), cardType, cardStatus, card.PinSet)

	if s.out.JSON() {
		if err := s.out.Success(d); err != nil {
			return err
		}
	} else {
		outputDecisionText(s.out, d)
	}

	if !d.Allowed {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s denied (%s)", ErrCodeDenied, action, d.Reason))
	}
	return nil
}

func outputDecisionText(out *OutputFormatter, d engine.Decision) {
	w := out.Writer
	label := cardLabel(d.CardType, d.CardStatus, d.PinSet)
	if d.Allowed {
		fmt.Fprintf(w, "✓ %s allowed for %s\n", d.Action, label)
	} else {
		fmt.Fprintf(w, "✗ %s denied for %s: %s\n", d.Action, label, d.Reason)
	}

	if !out.Verbose {
		return
	}
	for _, r := range d.Matched {
		marker := " "
		if slices.Contains(d.Applicable, r) {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, r)
	}
}
