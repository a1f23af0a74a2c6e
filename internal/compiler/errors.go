package compiler

import (
	"errors"
	"fmt"
)

// LoadErrorKind categorizes table load failures.
type LoadErrorKind string

const (
	// KindSourceUnavailable indicates rows could not be obtained at all.
	KindSourceUnavailable LoadErrorKind = "SOURCE_UNAVAILABLE"

	// KindStructural indicates the header layout lacks required anchors or
	// columns, or the compiled table violates its invariants in strict mode.
	KindStructural LoadErrorKind = "STRUCTURAL_ERROR"

	// KindUnrecognizedCell indicates a decision cell matched no known
	// classification.
	KindUnrecognizedCell LoadErrorKind = "UNRECOGNIZED_CELL_VALUE"
)

// LoadError is returned for every failed load. No table accompanies it.
type LoadError struct {
	// Kind identifies the error category.
	Kind LoadErrorKind

	// Message is a human-readable description.
	Message string

	// Row is the 1-based data row number, 0 when not row-specific.
	Row int

	// Column is the header of the offending column, if any.
	Column string

	// Value is the offending cell text (UNRECOGNIZED_CELL_VALUE only).
	Value string

	// Violations lists invariant violations behind a strict-mode failure.
	Violations []ValidationError

	// Err is the underlying cause (SOURCE_UNAVAILABLE only).
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	switch {
	case e.Row > 0 && e.Column != "":
		msg = fmt.Sprintf("%s (row=%d, column=%q)", msg, e.Row, e.Column)
	case e.Column != "":
		msg = fmt.Sprintf("%s (column=%q)", msg, e.Column)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a SOURCE_UNAVAILABLE error.
func NewSourceError(message string, err error) *LoadError {
	return &LoadError{Kind: KindSourceUnavailable, Message: message, Err: err}
}

// NewStructuralError creates a STRUCTURAL_ERROR for a header problem.
func NewStructuralError(message, column string) *LoadError {
	return &LoadError{Kind: KindStructural, Message: message, Column: column}
}

func newCellError(row int, column, value string) *LoadError {
	return &LoadError{
		Kind:    KindUnrecognizedCell,
		Message: fmt.Sprintf("unrecognized decision cell %q", value),
		Row:     row,
		Column:  column,
		Value:   value,
	}
}

func newViolationError(violations []ValidationError) *LoadError {
	return &LoadError{
		Kind:       KindStructural,
		Message:    fmt.Sprintf("table violates %d invariant(s), first: %s", len(violations), violations[0].Error()),
		Violations: violations,
	}
}

func isKind(err error, kind LoadErrorKind) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind == kind
	}
	return false
}

// IsSourceUnavailable returns true if err is a SOURCE_UNAVAILABLE load error.
// Uses errors.As to handle wrapped errors.
func IsSourceUnavailable(err error) bool {
	return isKind(err, KindSourceUnavailable)
}

// IsStructural returns true if err is a STRUCTURAL_ERROR load error.
func IsStructural(err error) bool {
	return isKind(err, KindStructural)
}

// IsUnrecognizedCell returns true if err is an UNRECOGNIZED_CELL_VALUE load error.
func IsUnrecognizedCell(err error) bool {
	return isKind(err, KindUnrecognizedCell)
}
