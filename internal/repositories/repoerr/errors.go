// Package repoerr holds the repository sentinel errors in a leaf package so
// that both repositories and the packages it imports can reference them
// without an import cycle.
package repoerr

import "errors"

var (
	// ErrNotFound means no row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the write hit a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)
