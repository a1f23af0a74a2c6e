package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardpolicy/internal/ir"
)

// cardFlags are the card state flags shared by query commands.
type cardFlags struct {
	Type   string
	Status string
	PinSet bool
}

func (c *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Type, "type", "", "card type (PREPAID|DEBIT|CREDIT)")
	cmd.Flags().StringVar(&c.Status, "status", "", "card status (ORDERED|INACTIVE|ACTIVE|RESTRICTED|BLOCKED|EXPIRED|CLOSED)")
	cmd.Flags().BoolVar(&c.PinSet, "pin-set", false, "the card has a PIN set")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("status")
}

func (c *cardFlags) parse() (ir.CardType, ir.CardStatus, error) {
	t, err := ir.ParseCardType(c.Type)
	if err != nil {
		return 0, 0, err
	}
	s, err := ir.ParseCardStatus(c.Status)
	if err != nil {
		return 0, 0, err
	}
	return t, s, nil
}

// pinLabel describes a PIN state for text output.
func pinLabel(pinSet bool) string {
	if pinSet {
		return "PIN set"
	}
	return "no PIN"
}

func cardLabel(t ir.CardType, s ir.CardStatus, pinSet bool) string {
	return fmt.Sprintf("%s/%s (%s)", t, s, pinLabel(pinSet))
}
