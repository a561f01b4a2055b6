package repositories

import "github.com/clipshelf/backend/internal/repositories/repoerr"

var (
	// ErrNotFound means no row matched the lookup.
	ErrNotFound = repoerr.ErrNotFound
	// ErrConflict means the write hit a uniqueness constraint.
	ErrConflict = repoerr.ErrConflict
)
