package engine

import (
	"github.com/roach88/cardpolicy/internal/ir"
)

// Resolver lists allowed actions for a card.
type Resolver struct {
	eval *Evaluator
}

// NewResolver creates a Resolver backed by eval.
func NewResolver(eval *Evaluator) *Resolver {
	return &Resolver{eval: eval}
}

// GetAllowedActions returns every catalog action allowed for the card, in
// catalog order. The result is never nil; an empty table yields an empty
// slice.
func (r *Resolver) GetAllowedActions(cardType ir.CardType, cardStatus ir.CardStatus, isPinSet bool) []ir.ActionName {
	allowed := make([]ir.ActionName, 0)
	for _, action := range r.eval.table.Actions() {
		if r.eval.IsActionAllowed(action, cardType, cardStatus, isPinSet) {
			allowed = append(allowed, action)
		}
	}
	return allowed
}
