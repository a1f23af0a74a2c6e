package compiler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/roach88/cardpolicy/internal/ir"
)

// errUnrecognizedCell is returned by ClassifyCell; Compile wraps it with the
// cell position.
var errUnrecognizedCell = errors.New("unrecognized cell value")

// qualifierSeparators may sit between the positive token and a qualifier.
const qualifierSeparators = " \t-–—,:;("

// Tokens are the cell vocabularies of a table. Comparisons ignore case and
// surrounding whitespace.
type Tokens struct {
	Positive           string `yaml:"positive"`
	Negative           string `yaml:"negative"`
	PinSetQualifier    string `yaml:"pin_set_qualifier"`
	PinNotSetQualifier string `yaml:"pin_not_set_qualifier"`
}

// DefaultTokens returns the canonical cell vocabulary.
func DefaultTokens() Tokens {
	return Tokens{
		Positive:           "YES",
		Negative:           "NO",
		PinSetQualifier:    "only if PIN is set",
		PinNotSetQualifier: "only if PIN is not set",
	}
}

// IsPositive reports whether text is exactly the positive token.
func (t Tokens) IsPositive(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(t.Positive))
}

// IsNegative reports whether text is blank or exactly the negative token.
func (t Tokens) IsNegative(text string) bool {
	s := strings.TrimSpace(text)
	return s == "" || strings.EqualFold(s, strings.TrimSpace(t.Negative))
}

// Cell is a classified decision cell.
type Cell struct {
	Allowed bool
	Pin     ir.PinRequirement
}

// ClassifyCell classifies decision-cell text. It returns an error for any
// non-empty text that is not one of the four known forms.
func ClassifyCell(text string, tokens Tokens) (Cell, error) {
	switch {
	case tokens.IsNegative(text):
		return Cell{Allowed: false, Pin: ir.PinAny}, nil
	case tokens.IsPositive(text):
		return Cell{Allowed: true, Pin: ir.PinAny}, nil
	}

	rest, ok := cutPrefixFold(strings.TrimSpace(text), strings.TrimSpace(tokens.Positive))
	if !ok || rest == "" || !strings.ContainsRune(qualifierSeparators, []rune(rest)[0]) {
		return Cell{}, errUnrecognizedCell
	}

	qualifier := normalizeQualifier(strings.TrimLeft(rest, qualifierSeparators))

	switch {
	case strings.EqualFold(qualifier, normalizeQualifier(tokens.PinSetQualifier)):
		return Cell{Allowed: true, Pin: ir.PinSet}, nil
	case strings.EqualFold(qualifier, normalizeQualifier(tokens.PinNotSetQualifier)):
		return Cell{Allowed: true, Pin: ir.PinNotSet}, nil
	}
	return Cell{}, errUnrecognizedCell
}

// normalizeQualifier drops a trailing ")" or "." and collapses spaces.
// Cell text and configured qualifiers go through it alike.
func normalizeQualifier(s string) string {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == ')' || r == '.' || unicode.IsSpace(r)
	})
	return collapseSpaces(s)
}

// Expand turns a classified cell into rule definitions. A PIN-conditioned
// cell yields a complementary pair so both PIN states are decided
// explicitly.
func (c Cell) Expand(action ir.ActionName, t ir.CardType, s ir.CardStatus) []ir.RuleDefinition {
	base := ir.RuleDefinition{Action: action, CardType: t, CardStatus: s}

	if c.Pin == ir.PinAny {
		base.IsAllowed = c.Allowed
		base.RequiresPinSet = ir.PinAny
		return []ir.RuleDefinition{base}
	}

	granted, refused := base, base
	granted.IsAllowed = c.Allowed
	granted.RequiresPinSet = c.Pin
	refused.IsAllowed = !c.Allowed
	refused.RequiresPinSet = c.Pin.Complement()
	return []ir.RuleDefinition{granted, refused}
}

// cutPrefixFold is strings.CutPrefix with case-insensitive matching.
func cutPrefixFold(s, prefix string) (string, bool) {
	sr := []rune(s)
	pr := []rune(prefix)
	if len(pr) == 0 || len(sr) < len(pr) {
		return s, false
	}
	if !strings.EqualFold(string(sr[:len(pr)]), prefix) {
		return s, false
	}
	return string(sr[len(pr):]), true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
