package engine

import (
	"errors"
	"fmt"
)

// ErrNilTable is returned when a nil table would be published.
var ErrNilTable = errors.New("nil rule table")

// ReloadError reports a failed reload. The previously published table is
// still in service.
type ReloadError struct {
	// Generation is the generation that stayed published.
	Generation uint64

	// Digest is the digest of the table that stayed published.
	Digest string

	// Err is the loader failure.
	Err error
}

// Error implements the error interface.
func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload failed, keeping generation %d (digest=%.12s): %v", e.Generation, e.Digest, e.Err)
}

// Unwrap returns the loader failure.
func (e *ReloadError) Unwrap() error {
	return e.Err
}

// IsReloadError returns true if err is a failed reload.
// Uses errors.As to handle wrapped errors.
func IsReloadError(err error) bool {
	var re *ReloadError
	return errors.As(err, &re)
}
