package compiler

import (
	"fmt"

	"github.com/roach88/cardpolicy/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrDuplicateAgnosticRule = "E201" // more than one PIN-agnostic rule for a cell
	ErrMixedPinRules         = "E202" // PIN-agnostic and PIN-specific rules for a cell
	ErrPinPairInvalid        = "E203" // PIN-specific rules do not form a complementary pair
	ErrEmptyCatalog          = "E204" // table has no actions
	ErrInvalidEnum           = "E205" // card type, status or PIN requirement out of range
)

// ValidationError represents a table invariant violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the table against the rule invariants.
// Returns all errors found (does not fail-fast), in rule order.
//
// For every (action, card type, card status) cell there must be either one
// PIN-agnostic rule, or exactly two PIN-specific rules covering opposite PIN
// states with opposite verdicts.
func Validate(table *ir.RuleTable) []ValidationError {
	var errs []ValidationError

	if table.ActionCount() == 0 {
		errs = append(errs, ValidationError{
			Field:   "catalog",
			Message: "table defines no actions",
			Code:    ErrEmptyCatalog,
		})
	}

	var order []ir.RuleKey
	cells := make(map[ir.RuleKey][]ir.RuleDefinition)
	for i, r := range table.Rules() {
		if !r.CardType.Valid() || !r.CardStatus.Valid() || r.RequiresPinSet < ir.PinAny || r.RequiresPinSet > ir.PinNotSet {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rules[%d]", i),
				Message: fmt.Sprintf("rule %s has an out-of-range field", r),
				Code:    ErrInvalidEnum,
			})
			continue
		}
		key := r.Key()
		if _, ok := cells[key]; !ok {
			order = append(order, key)
		}
		cells[key] = append(cells[key], r)
	}

	for _, key := range order {
		errs = append(errs, validateCell(cells[key])...)
	}

	return errs
}

func validateCell(defs []ir.RuleDefinition) []ValidationError {
	field := fmt.Sprintf("%s/%s/%s", defs[0].Action, defs[0].CardType, defs[0].CardStatus)

	var agnostic, specific []ir.RuleDefinition
	for _, d := range defs {
		if d.RequiresPinSet == ir.PinAny {
			agnostic = append(agnostic, d)
		} else {
			specific = append(specific, d)
		}
	}

	switch {
	case len(agnostic) > 0 && len(specific) > 0:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%d PIN-agnostic and %d PIN-specific rules for the same cell", len(agnostic), len(specific)),
			Code:    ErrMixedPinRules,
		}}
	case len(agnostic) > 1:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%d PIN-agnostic rules for the same cell, expected 1", len(agnostic)),
			Code:    ErrDuplicateAgnosticRule,
		}}
	case len(agnostic) == 1:
		return nil
	case len(specific) != 2:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%d PIN-specific rules, expected a complementary pair", len(specific)),
			Code:    ErrPinPairInvalid,
		}}
	case specific[0].RequiresPinSet == specific[1].RequiresPinSet:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("both PIN-specific rules cover pin=%s", specific[0].RequiresPinSet),
			Code:    ErrPinPairInvalid,
		}}
	case specific[0].IsAllowed == specific[1].IsAllowed:
		return []ValidationError{{
			Field:   field,
			Message: "PIN-specific rules agree, so the PIN condition decides nothing",
			Code:    ErrPinPairInvalid,
		}}
	}
	return nil
}
