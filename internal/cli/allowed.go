package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardpolicy/internal/engine"
)

// AllowedResult is the answer of the allowed command.
type AllowedResult struct {
	CardType   string   `json:"card_type"`
	CardStatus string   `json:"card_status"`
	PinSet     bool     `json:"pin_set"`
	Actions    []string `json:"actions"`
}

// NewAllowedCommand creates the allowed command.
func NewAllowedCommand(rootOpts *RootOptions) *cobra.Command {
	card := &cardFlags{}

	cmd := &cobra.Command{
		Use:   "allowed",
		Short: "List the actions allowed for a card",
		Long: `List every action allowed for a card state, in table order.

Example:
  cardpolicy allowed --table actions.csv --type CREDIT --status BLOCKED --pin-set`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllowed(rootOpts, card, cmd)
		},
	}
	card.bind(cmd)

	return cmd
}

func runAllowed(opts *RootOptions, card *cardFlags, cmd *cobra.Command) error {
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

	resolver := engine.NewResolver(engine.NewEvaluator(loaded.Table))
	actions := resolver.GetAllowedActions(cardType, cardStatus, card.PinSet)

	result := AllowedResult{
		CardType:   cardType.String(),
		CardStatus: cardStatus.String(),
		PinSet:     card.PinSet,
		Actions:    make([]string, len(actions)),
	}
	for i, a := range actions {
		result.Actions[i] = string(a)
	}

	if s.out.JSON() {
		return s.out.Success(result)
	}

	w := s.out.Writer
	fmt.Fprintf(w, "%d action(s) allowed for %s\n", len(result.Actions), cardLabel(cardType, cardStatus, card.PinSet))
	for _, a := range result.Actions {
		fmt.Fprintf(w, "  %s\n", a)
	}
	return nil
}
