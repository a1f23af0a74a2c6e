// Package compiler turns raw decision-table rows into an ir.RuleTable.
//
// The input is deliberately origin-agnostic: an ordered header list plus
// rows mapping header text to cell text. Delimited files, SQLite snapshots
// and CUE fixtures all reach the compiler through the RowSource interface.
//
// # Layout
//
// The header row holds one action-name column, a block of card-type marker
// columns, and a block of card-status decision columns:
//
//	ACTION | PREPAID | DEBIT | CREDIT | ORDERED | INACTIVE | ... | CLOSED
//
// Each block is located by its anchor header (the first member's column)
// and the following columns are bound to the remaining members in enum
// order. Header text after the anchor is not checked.
//
// # Cells
//
// Marker cells equal to the positive token switch a card type on for the
// row. Decision cells are classified as:
//
//	""  or NO                         -> denied, any PIN state
//	YES                               -> allowed, any PIN state
//	YES - only if PIN is set          -> allowed with PIN, denied without
//	YES - only if PIN is not set      -> allowed without PIN, denied with
//
// Any other text is rejected with an UNRECOGNIZED_CELL_VALUE error. The
// load fails as a whole; there is no per-cell fallback.
package compiler
