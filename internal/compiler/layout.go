package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/cardpolicy/internal/ir"
)

// Layout names the headers used to locate the column blocks.
type Layout struct {
	ActionHeader     string `yaml:"action_header"`
	CardTypeAnchor   string `yaml:"card_type_anchor"`
	CardStatusAnchor string `yaml:"card_status_anchor"`
}

// DefaultLayout returns the canonical header layout.
func DefaultLayout() Layout {
	return Layout{
		ActionHeader:     "ACTION",
		CardTypeAnchor:   "PREPAID",
		CardStatusAnchor: "ORDERED",
	}
}

// Columns binds each logical column to the header text used to read it
// from a row. CardTypes and CardStatuses are indexed by enum value.
type Columns struct {
	Action       string
	CardTypes    []string
	CardStatuses []string
}

// CardTypeColumn returns the marker column header for t.
func (c Columns) CardTypeColumn(t ir.CardType) string {
	return c.CardTypes[t]
}

// CardStatusColumn returns the decision column header for s.
func (c Columns) CardStatusColumn(s ir.CardStatus) string {
	return c.CardStatuses[s]
}

// ResolveColumns locates the action column and both anchored blocks.
//
// Returns a STRUCTURAL_ERROR if a header or anchor is missing, a block runs
// past the last header, blocks overlap, or a bound column's header text
// appears at more than one position.
func ResolveColumns(headers []string, layout Layout) (Columns, error) {
	actionIdx := indexOfHeader(headers, layout.ActionHeader)
	if actionIdx < 0 {
		return Columns{}, NewStructuralError("action header not found", layout.ActionHeader)
	}

	types := ir.AllCardTypes()
	typeIdx := indexOfHeader(headers, layout.CardTypeAnchor)
	if typeIdx < 0 {
		return Columns{}, NewStructuralError("card type anchor not found", layout.CardTypeAnchor)
	}
	if typeIdx+len(types) > len(headers) {
		return Columns{}, NewStructuralError(
			fmt.Sprintf("card type block needs %d columns from anchor, only %d present", len(types), len(headers)-typeIdx),
			layout.CardTypeAnchor)
	}

	statuses := ir.AllCardStatuses()
	statusIdx := indexOfHeader(headers, layout.CardStatusAnchor)
	if statusIdx < 0 {
		return Columns{}, NewStructuralError("card status anchor not found", layout.CardStatusAnchor)
	}
	if statusIdx+len(statuses) > len(headers) {
		return Columns{}, NewStructuralError(
			fmt.Sprintf("card status block needs %d columns from anchor, only %d present", len(statuses), len(headers)-statusIdx),
			layout.CardStatusAnchor)
	}

	// Every header position may be bound at most once.
	owner := make(map[int]string)
	bind := func(idx int, what string) error {
		if prev, taken := owner[idx]; taken {
			return NewStructuralError(fmt.Sprintf("column bound twice (%s and %s)", prev, what), headers[idx])
		}
		owner[idx] = what
		return nil
	}

	cols := Columns{
		Action:       headers[actionIdx],
		CardTypes:    make([]string, len(types)),
		CardStatuses: make([]string, len(statuses)),
	}
	if err := bind(actionIdx, "action"); err != nil {
		return Columns{}, err
	}
	for i, t := range types {
		if err := bind(typeIdx+i, "card type "+t.String()); err != nil {
			return Columns{}, err
		}
		cols.CardTypes[t] = headers[typeIdx+i]
	}
	for i, s := range statuses {
		if err := bind(statusIdx+i, "card status "+s.String()); err != nil {
			return Columns{}, err
		}
		cols.CardStatuses[s] = headers[statusIdx+i]
	}

	// Rows are keyed by header text, so a bound header must be unique
	// across all columns, bound or not.
	count := make(map[string]int, len(headers))
	for _, h := range headers {
		count[h]++
	}
	for idx := range headers {
		if _, bound := owner[idx]; bound && count[headers[idx]] > 1 {
			return Columns{}, NewStructuralError("bound column shares its header text with another column", headers[idx])
		}
	}

	return cols, nil
}

// indexOfHeader returns the first header equal to name, ignoring case and
// surrounding whitespace, or -1.
func indexOfHeader(headers []string, name string) int {
	want := strings.TrimSpace(name)
	if want == "" {
		return -1
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}
