package engine

import (
	"github.com/roach88/cardpolicy/internal/ir"
)

// Reason explains the outcome of a decision.
type Reason string

const (
	// ReasonNoRule means no rule exists for the action, type and status.
	ReasonNoRule Reason = "no_rule"

	// ReasonPinMismatch means rules exist but none applies to the PIN state.
	ReasonPinMismatch Reason = "pin_mismatch"

	// ReasonVetoed means at least one applicable rule denies.
	ReasonVetoed Reason = "vetoed"

	// ReasonAllowed means every applicable rule allows.
	ReasonAllowed Reason = "allowed"
)

// Decision is an explained permission answer.
type Decision struct {
	Action     ir.ActionName       `json:"action"`
	CardType   ir.CardType         `json:"card_type"`
	CardStatus ir.CardStatus       `json:"card_status"`
	PinSet     bool                `json:"pin_set"`
	Allowed    bool                `json:"allowed"`
	Reason     Reason              `json:"reason"`
	Matched    []ir.RuleDefinition `json:"matched"`
	Applicable []ir.RuleDefinition `json:"applicable"`
}

// Evaluator decides permissions against one immutable table.
//
// Thread-safety: Evaluator holds no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	table *ir.RuleTable
}

// NewEvaluator creates an Evaluator over table. A nil table behaves as an
// empty one and denies everything.
func NewEvaluator(table *ir.RuleTable) *Evaluator {
	if table == nil {
		table = ir.NewRuleTable(nil)
	}
	return &Evaluator{table: table}
}

// Table returns the table being evaluated.
func (e *Evaluator) Table() *ir.RuleTable {
	return e.table
}

// IsActionAllowed reports whether action may be performed on a card of the
// given type and status with the given PIN state.
func (e *Evaluator) IsActionAllowed(action ir.ActionName, cardType ir.CardType, cardStatus ir.CardStatus, isPinSet bool) bool {
	defs := e.table.Lookup(ir.RuleKey{Action: action.Key(), CardType: cardType, CardStatus: cardStatus})

	applicable := 0
	for _, d := range defs {
		if !d.RequiresPinSet.Matches(isPinSet) {
			continue
		}
		if !d.IsAllowed {
			return false
		}
		applicable++
	}
	return applicable > 0
}

// Explain is IsActionAllowed with the reasoning attached. Its Allowed field
// always equals IsActionAllowed for the same arguments.
func (e *Evaluator) Explain(action ir.ActionName, cardType ir.CardType, cardStatus ir.CardStatus, isPinSet bool) Decision {
	d := Decision{
		Action:     action,
		CardType:   cardType,
		CardStatus: cardStatus,
		PinSet:     isPinSet,
		Matched:    []ir.RuleDefinition{},
		Applicable: []ir.RuleDefinition{},
	}

	defs := e.table.Lookup(ir.RuleKey{Action: action.Key(), CardType: cardType, CardStatus: cardStatus})
	d.Matched = append(d.Matched, defs...)
	if len(defs) == 0 {
		d.Reason = ReasonNoRule
		return d
	}

	for _, def := range defs {
		if def.RequiresPinSet.Matches(isPinSet) {
			d.Applicable = append(d.Applicable, def)
		}
	}
	if len(d.Applicable) == 0 {
		d.Reason = ReasonPinMismatch
		return d
	}

	for _, def := range d.Applicable {
		if !def.IsAllowed {
			d.Reason = ReasonVetoed
			return d
		}
	}

	d.Allowed = true
	d.Reason = ReasonAllowed
	return d
}
