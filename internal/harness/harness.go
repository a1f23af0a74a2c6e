package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/engine"
	"github.com/roach88/cardpolicy/internal/ir"
	"github.com/roach88/cardpolicy/internal/source"
)

// Run executes a scenario with the default compiler options.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(context.Background(), scenario, compiler.DefaultOptions())
}

// RunWithOptions executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the scenario's table with opts (Strict overridden by the scenario)
//  2. Compare any load failure against expect_load_error
//  3. Evaluate each case in order and record it in the trace
//
// Expectation mismatches are reported in Result.Errors. An error is only
// returned when the scenario itself cannot run.
func RunWithOptions(ctx context.Context, scenario *Scenario, opts compiler.Options) (*Result, error) {
	if scenario.Strict != nil {
		opts.Strict = *scenario.Strict
	}

	src, err := source.ForPath(scenario.Table, source.FileOptions{})
	if err != nil {
		return nil, fmt.Errorf("table source: %w", err)
	}

	result := NewResult()

	table, err := compiler.Load(ctx, src, opts)
	if err != nil {
		var le *compiler.LoadError
		if !errors.As(err, &le) {
			return nil, fmt.Errorf("load table: %w", err)
		}
		result.addEvent(TraceEvent{Type: EventLoadError, Kind: string(le.Kind)})
		switch {
		case scenario.ExpectLoadError == "":
			result.AddError(fmt.Sprintf("load failed: %v", err))
		case scenario.ExpectLoadError != string(le.Kind):
			result.AddError(fmt.Sprintf("expected load error %s, got %v", scenario.ExpectLoadError, err))
		}
		return result, nil
	}

	result.addEvent(TraceEvent{Type: EventLoad, ActionCount: table.ActionCount(), RuleCount: table.Len()})
	if scenario.ExpectLoadError != "" {
		result.AddError(fmt.Sprintf("expected load error %s, table loaded", scenario.ExpectLoadError))
		return result, nil
	}

	eval := engine.NewEvaluator(table)
	resolver := engine.NewResolver(eval)

	for i, c := range scenario.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cardType, cardStatus, err := c.Card.parse()
		if err != nil {
			return nil, fmt.Errorf("cases[%d].card: %w", i, err)
		}
		card := &Card{Type: cardType.String(), Status: cardStatus.String(), PinSet: c.Card.PinSet}

		if c.Action == "" {
			got := actionStrings(resolver.GetAllowedActions(cardType, cardStatus, c.Card.PinSet))
			result.addEvent(TraceEvent{Type: EventAllowedActions, Card: card, Actions: got})
			if !slices.EqualFunc(got, c.ExpectAllowed, sameAction) {
				result.AddError(fmt.Sprintf("cases[%d] %s/%s pin_set=%v: expected allowed %v, got %v",
					i, card.Type, card.Status, card.PinSet, c.ExpectAllowed, got))
			}
			continue
		}

		d := eval.Explain(ir.ActionName(c.Action), cardType, cardStatus, c.Card.PinSet)
		result.addEvent(TraceEvent{
			Type:    EventCheck,
			Card:    card,
			Action:  c.Action,
			Allowed: d.Allowed,
			Reason:  string(d.Reason),
		})
		if d.Allowed != (c.Expect == ExpectAllowed) {
			result.AddError(fmt.Sprintf("cases[%d] %s on %s/%s pin_set=%v: expected %s, got %s (reason=%s)",
				i, c.Action, card.Type, card.Status, card.PinSet, c.Expect, verdict(d.Allowed), d.Reason))
		}
	}

	return result, nil
}

func actionStrings(actions []ir.ActionName) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

func verdict(allowed bool) string {
	if allowed {
		return ExpectAllowed
	}
	return ExpectDenied
}

// sameAction compares action names the way the table looks them up.
func sameAction(a, b string) bool {
	return ir.ActionName(a).Equal(ir.ActionName(b))
}
