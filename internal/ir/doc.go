// Package ir provides the canonical in-memory representation of a card
// action decision table.
//
// This package contains type definitions and their invariants only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// the rule model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - CardType and CardStatus are closed enumerations; iteration order is
//     enum order and never changes
//   - ActionName comparison is case-insensitive (Unicode case folding over
//     NFC-normalized text)
//   - RuleTable is immutable after NewRuleTable returns and is safe for any
//     number of concurrent readers without locks
//   - All JSON tags use snake_case
package ir
