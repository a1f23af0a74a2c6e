package engine

import (
	"github.com/roach88/cardpolicy/internal/ir"
)

// MatrixCell holds both PIN outcomes for one card type and status.
type MatrixCell struct {
	CardType   ir.CardType   `json:"card_type"`
	CardStatus ir.CardStatus `json:"card_status"`
	WithPin    bool          `json:"with_pin"`
	WithoutPin bool          `json:"without_pin"`
}

// PinDependent reports whether the PIN state changes the outcome.
func (c MatrixCell) PinDependent() bool {
	return c.WithPin != c.WithoutPin
}

// Matrix is the full decision grid for one action.
type Matrix struct {
	Action ir.ActionName `json:"action"`
	Known  bool          `json:"known"`
	Cells  []MatrixCell  `json:"cells"`
}

// Cell returns the cell for a card type and status.
func (m Matrix) Cell(t ir.CardType, s ir.CardStatus) MatrixCell {
	return m.Cells[int(t)*len(ir.AllCardStatuses())+int(s)]
}

// Matrix evaluates action for every card type, status and PIN state.
// Cells are ordered by card type, then status, both in enum order.
func (e *Evaluator) Matrix(action ir.ActionName) Matrix {
	m := Matrix{
		Action: action,
		Known:  e.table.HasAction(action),
	}
	for _, t := range ir.AllCardTypes() {
		for _, s := range ir.AllCardStatuses() {
			m.Cells = append(m.Cells, MatrixCell{
				CardType:   t,
				CardStatus: s,
				WithPin:    e.IsActionAllowed(action, t, s, true),
				WithoutPin: e.IsActionAllowed(action, t, s, false),
			})
		}
	}
	return m
}
