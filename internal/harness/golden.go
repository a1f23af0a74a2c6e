package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cardpolicy/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// Only the fields meaningful for each event type are included.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"type": event.Type,
			"seq":  event.Seq,
		}
		switch event.Type {
		case EventLoad:
			eventMap["action_count"] = event.ActionCount
			eventMap["rule_count"] = event.RuleCount
		case EventLoadError:
			eventMap["kind"] = event.Kind
		case EventAllowedActions:
			eventMap["card"] = cardMap(event.Card)
			actions := event.Actions
			if actions == nil {
				actions = []string{}
			}
			eventMap["actions"] = actions
		case EventCheck:
			eventMap["card"] = cardMap(event.Card)
			eventMap["action"] = event.Action
			eventMap["allowed"] = event.Allowed
			eventMap["reason"] = event.Reason
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

func cardMap(c *Card) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return map[string]any{
		"type":    c.Type,
		"status":  c.Status,
		"pin_set": c.PinSet,
	}
}

// CanonicalTrace renders the trace of result as canonical JSON, the form
// stored in golden files.
func CanonicalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := CanonicalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
