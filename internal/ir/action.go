package ir

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ActionName is an opaque identifier for a cardholder operation.
// Two names are the same action when their Keys are equal.
type ActionName string

// Key returns the lookup key used for case-insensitive comparison:
// whitespace-trimmed, NFC-normalized, Unicode case-folded.
//
// A cases.Caser is stateful, so a fresh one is built per call; Key is safe
// for concurrent use.
func (a ActionName) Key() string {
	s := norm.NFC.String(strings.TrimSpace(string(a)))
	return cases.Fold().String(s)
}

// Equal reports whether a and b name the same action.
func (a ActionName) Equal(b ActionName) bool {
	return a.Key() == b.Key()
}

func (a ActionName) String() string {
	return string(a)
}
