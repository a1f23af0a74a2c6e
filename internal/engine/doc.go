// Package engine answers permission questions against a compiled RuleTable.
//
// The Evaluator decides a single (action, card type, card status, PIN)
// question. The Resolver lists every allowed action for a card in catalog
// order. Both are pure: they never block, log, or mutate the table, so any
// number of goroutines may share them.
//
// Decision algorithm:
//
//  1. Select rules for the action (case-insensitive), card type and status.
//  2. No rules: deny. Absence of a rule never implies permission.
//  3. Keep rules whose PIN requirement is "any" or matches the PIN state.
//  4. None left: deny.
//  5. Any remaining rule denies: deny.
//  6. Otherwise allow.
//
// A Holder publishes the current table behind an atomic pointer so a
// reload can swap it without stopping readers. A failed reload leaves the
// previous table in place.
package engine
