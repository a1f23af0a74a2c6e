// Package harness runs decision table scenarios.
//
// A scenario names a table file and a list of cases. Each case asks either
// for the allowed actions of a card or for the decision on one action, and
// states the expected answer. Running a scenario loads the table the same
// way the CLI does, evaluates every case, and records a trace that can be
// compared against a golden file.
//
// # Scenario Format
//
//	name: credit_blocked
//	description: "PIN-conditioned actions flip with PIN state"
//	table: ../tables/card_actions.csv
//	cases:
//	  - card: { type: CREDIT, status: BLOCKED, pin_set: true }
//	    expect_allowed: [ACTION3, ACTION4, ACTION5, ACTION6, ACTION7, ACTION8, ACTION9]
//	  - action: ACTION6
//	    card: { type: CREDIT, status: BLOCKED, pin_set: false }
//	    expect: denied
//
// The table path is relative to the scenario file. A scenario may instead
// expect the table to be rejected:
//
//	expect_load_error: STRUCTURAL_ERROR
//
// # Trace
//
// Events are numbered by a logical seq starting at 1:
//   - load: the table compiled (action and rule counts)
//   - load_error: the table was rejected (error kind)
//   - allowed_actions: a resolver case and its answer
//   - check: an evaluator case with its decision and reason
package harness
