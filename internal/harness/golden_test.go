package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_TestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestCanonicalTrace_Shape(t *testing.T) {
	result := NewResult()
	result.addEvent(TraceEvent{Type: EventLoad, ActionCount: 2, RuleCount: 5})
	result.addEvent(TraceEvent{
		Type:    EventAllowedActions,
		Card:    &Card{Type: "DEBIT", Status: "CLOSED"},
		Actions: nil,
	})
	result.addEvent(TraceEvent{
		Type:   EventCheck,
		Card:   &Card{Type: "CREDIT", Status: "ACTIVE", PinSet: true},
		Action: "top <up> & go",
		Reason: "no_rule",
	})

	got, err := CanonicalTrace("shape", result)
	require.NoError(t, err)

	want := `{"scenario_name":"shape","trace":[` +
		`{"action_count":2,"rule_count":5,"seq":1,"type":"load"},` +
		`{"actions":[],"card":{"pin_set":false,"status":"CLOSED","type":"DEBIT"},"seq":2,"type":"allowed_actions"},` +
		`{"action":"top <up> & go","allowed":false,"card":{"pin_set":true,"status":"ACTIVE","type":"CREDIT"},"reason":"no_rule","seq":3,"type":"check"}]}`
	assert.Equal(t, want, string(got))
}

func TestCanonicalTrace_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/credit_blocked.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := CanonicalTrace(scenario.Name, first)
	require.NoError(t, err)
	b, err := CanonicalTrace(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCanonicalTrace_LoadErrorOnlyHasKind(t *testing.T) {
	result := NewResult()
	result.addEvent(TraceEvent{Type: EventLoadError, Kind: "STRUCTURAL_ERROR"})

	got, err := CanonicalTrace("broken", result)
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"broken","trace":[{"kind":"STRUCTURAL_ERROR","seq":1,"type":"load_error"}]}`, string(got))
}
